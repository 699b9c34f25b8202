package message

// FlexContainer is the top-level content of a flex message: a bubble or a
// carousel of bubbles.
type FlexContainer interface {
	flexContainer()
}

// FlexComponent is any element nested inside a flex container
type FlexComponent interface {
	flexComponent()
}

// FlexBubble is a single flex message unit
type FlexBubble struct {
	Type   string        `json:"type"`
	Size   string        `json:"size,omitempty"`
	Hero   *FlexImage    `json:"hero,omitempty"`
	Body   *FlexBox      `json:"body,omitempty"`
	Footer *FlexBox      `json:"footer,omitempty"`
	Styles *BubbleStyles `json:"styles,omitempty"`
}

// NewFlexBubble creates an empty bubble
func NewFlexBubble() *FlexBubble {
	return &FlexBubble{Type: "bubble"}
}

func (c *FlexBubble) flexContainer() {}

// FlexCarousel is a horizontally scrollable set of bubbles
type FlexCarousel struct {
	Type     string        `json:"type"`
	Contents []*FlexBubble `json:"contents"`
}

// NewFlexCarousel creates a carousel from the given bubbles
func NewFlexCarousel(contents ...*FlexBubble) *FlexCarousel {
	return &FlexCarousel{Type: "carousel", Contents: contents}
}

func (c *FlexCarousel) flexContainer() {}

// BubbleStyles customizes the blocks of a bubble
type BubbleStyles struct {
	Header *BlockStyle `json:"header,omitempty"`
	Body   *BlockStyle `json:"body,omitempty"`
	Footer *BlockStyle `json:"footer,omitempty"`
}

// BlockStyle customizes one block of a bubble
type BlockStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Separator       bool   `json:"separator,omitempty"`
	SeparatorColor  string `json:"separatorColor,omitempty"`
}

// FlexBox lays out child components horizontally, vertically or as a
// baseline group.
type FlexBox struct {
	Type     string          `json:"type"`
	Layout   string          `json:"layout"` // "horizontal", "vertical" or "baseline"
	Contents []FlexComponent `json:"contents"`
	Flex     *int            `json:"flex,omitempty"`
	Spacing  string          `json:"spacing,omitempty"`
	Margin   string          `json:"margin,omitempty"`
}

// NewFlexBox creates a box with the given layout and children
func NewFlexBox(layout string, contents ...FlexComponent) *FlexBox {
	return &FlexBox{
		Type:     "box",
		Layout:   layout,
		Contents: contents,
	}
}

func (c *FlexBox) flexComponent() {}

// FlexText is a text component
type FlexText struct {
	Type     string          `json:"type"`
	Text     string          `json:"text"`
	Flex     *int            `json:"flex,omitempty"`
	Size     string          `json:"size,omitempty"`
	Align    string          `json:"align,omitempty"`
	Color    string          `json:"color,omitempty"`
	Weight   string          `json:"weight,omitempty"`
	Wrap     bool            `json:"wrap,omitempty"`
	Margin   string          `json:"margin,omitempty"`
	MaxLines *int            `json:"maxLines,omitempty"`
	Contents []FlexComponent `json:"contents,omitempty"`
}

// NewFlexText creates a text component
func NewFlexText(text string) *FlexText {
	return &FlexText{Type: "text", Text: text}
}

func (c *FlexText) flexComponent() {}

// FlexImage is an image component
type FlexImage struct {
	Type            string `json:"type"`
	URL             string `json:"url"`
	Flex            *int   `json:"flex,omitempty"`
	Size            string `json:"size,omitempty"`
	AspectRatio     string `json:"aspectRatio,omitempty"`
	AspectMode      string `json:"aspectMode,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Action          Action `json:"action,omitempty"`
}

// NewFlexImage creates an image component
func NewFlexImage(url string) *FlexImage {
	return &FlexImage{Type: "image", URL: url}
}

func (c *FlexImage) flexComponent() {}

// FlexIcon is a small decorative image, usable only in baseline boxes
type FlexIcon struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Size string `json:"size,omitempty"`
}

// NewFlexIcon creates an icon component
func NewFlexIcon(url string) *FlexIcon {
	return &FlexIcon{Type: "icon", URL: url}
}

func (c *FlexIcon) flexComponent() {}

// FlexButton renders a tappable button that fires its action
type FlexButton struct {
	Type    string `json:"type"`
	Action  Action `json:"action"`
	Flex    *int   `json:"flex,omitempty"`
	Style   string `json:"style,omitempty"` // "primary", "secondary" or "link"
	Height  string `json:"height,omitempty"`
	Margin  string `json:"margin,omitempty"`
	Gravity string `json:"gravity,omitempty"`
}

// NewFlexButton creates a button firing the given action
func NewFlexButton(action Action) *FlexButton {
	return &FlexButton{Type: "button", Action: action}
}

func (c *FlexButton) flexComponent() {}

// FlexSeparator draws a separating line inside a box
type FlexSeparator struct {
	Type   string `json:"type"`
	Margin string `json:"margin,omitempty"`
	Color  string `json:"color,omitempty"`
}

// NewFlexSeparator creates a separator component
func NewFlexSeparator() *FlexSeparator {
	return &FlexSeparator{Type: "separator"}
}

func (c *FlexSeparator) flexComponent() {}

// FlexSpacer adds fixed empty space inside a box
type FlexSpacer struct {
	Type string `json:"type"`
	Size string `json:"size,omitempty"`
}

// NewFlexSpacer creates a spacer component
func NewFlexSpacer() *FlexSpacer {
	return &FlexSpacer{Type: "spacer"}
}

func (c *FlexSpacer) flexComponent() {}
