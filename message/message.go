// Package message contains the outbound message model for the LINE
// Messaging API. Constructors set the wire-format type discriminator so a
// hand-assembled struct serializes the way the platform expects.
package message

// Message is implemented by all sendable message types
type Message interface {
	message()
}

// TextMessage is a plain text message
type TextMessage struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	QuoteToken string `json:"quoteToken,omitempty"`
}

// NewTextMessage creates a text message
func NewTextMessage(text string) *TextMessage {
	return &TextMessage{
		Type: "text",
		Text: text,
	}
}

func (m *TextMessage) message() {}

// FlexMessage is a message carrying a flex container. AltText is shown on
// clients that cannot render flex content.
type FlexMessage struct {
	Type     string        `json:"type"`
	AltText  string        `json:"altText"`
	Contents FlexContainer `json:"contents"`
}

// NewFlexMessage creates a flex message
func NewFlexMessage(altText string, contents FlexContainer) *FlexMessage {
	return &FlexMessage{
		Type:     "flex",
		AltText:  altText,
		Contents: contents,
	}
}

func (m *FlexMessage) message() {}
