package message

// Action is implemented by all tap actions usable on buttons and images
type Action interface {
	action()
}

// URIAction opens a URL when tapped
type URIAction struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	URI   string `json:"uri"`
}

// NewURIAction creates a URI action
func NewURIAction(label, uri string) *URIAction {
	return &URIAction{Type: "uri", Label: label, URI: uri}
}

func (a *URIAction) action() {}

// MessageAction sends a text message on the user's behalf when tapped
type MessageAction struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

// NewMessageAction creates a message action
func NewMessageAction(label, text string) *MessageAction {
	return &MessageAction{Type: "message", Label: label, Text: text}
}

func (a *MessageAction) action() {}

// PostbackAction delivers a postback event with the given data when tapped
type PostbackAction struct {
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	Data        string `json:"data"`
	DisplayText string `json:"displayText,omitempty"`
}

// NewPostbackAction creates a postback action
func NewPostbackAction(label, data string) *PostbackAction {
	return &PostbackAction{Type: "postback", Label: label, Data: data}
}

func (a *PostbackAction) action() {}
