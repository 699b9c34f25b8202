package webhook

// Event type constants as delivered in the webhook payload
const (
	EventTypeMessage  = "message"
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"
	EventTypeJoin     = "join"
	EventTypeLeave    = "leave"
	EventTypePostback = "postback"
)

// Message content type constants
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeVideo    = "video"
	MessageTypeAudio    = "audio"
	MessageTypeFile     = "file"
	MessageTypeLocation = "location"
	MessageTypeSticker  = "sticker"
)

// CallbackRequest represents the webhook payload delivered by the LINE
// platform. Destination is the bot user ID the payload was sent to.
type CallbackRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event represents a single webhook event
type Event struct {
	Type            string           `json:"type"`
	Mode            string           `json:"mode,omitempty"`
	Timestamp       int64            `json:"timestamp"`
	Source          *EventSource     `json:"source,omitempty"`
	WebhookEventID  string           `json:"webhookEventId,omitempty"`
	DeliveryContext *DeliveryContext `json:"deliveryContext,omitempty"`
	ReplyToken      string           `json:"replyToken,omitempty"`
	Message         *MessageContent  `json:"message,omitempty"`
	Postback        *PostbackContent `json:"postback,omitempty"`
}

// IsRedelivery reports whether the platform marked this event as a
// redelivered copy of an earlier webhook call.
func (e *Event) IsRedelivery() bool {
	return e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery
}

// EventSource identifies where an event originated
type EventSource struct {
	Type    string `json:"type"` // "user", "group" or "room"
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// DeliveryContext carries redelivery metadata for an event
type DeliveryContext struct {
	IsRedelivery bool `json:"isRedelivery"`
}

// MessageContent represents the message attached to a message event. Only
// text content carries a payload the SDK inspects; other types are passed
// through with their ID for content-API retrieval by the caller.
type MessageContent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	QuoteToken string `json:"quoteToken,omitempty"`
	StickerID  string `json:"stickerId,omitempty"`
	PackageID  string `json:"packageId,omitempty"`
}

// PostbackContent represents the data attached to a postback event
type PostbackContent struct {
	Data string `json:"data"`
}
