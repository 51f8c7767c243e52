package slack

// RawMessage is a conversations.history entry after field defaulting.
// Every field is populated even when the API omitted it.
type RawMessage struct {
	Username    string
	Text        string
	Attachments []Attachment
	Timestamp   string
	Reactions   []Reaction
}

// Attachment is a legacy message attachment. Only its text is consumed,
// the rest (fallback, color, pretext, ...) is kept opaque.
type Attachment map[string]any

// Text returns the attachment text, or "" when absent.
func (a Attachment) Text() string {
	text, _ := a["text"].(string)
	return text
}

type Reaction struct {
	Name  string
	Users []string
	Count int
}

// Message is the normalized record produced by a crawl.
type Message struct {
	Username       string   `json:"username"`
	Text           string   `json:"text"`
	Timestamp      string   `json:"ts"`
	AttachmentText string   `json:"attachmentText"`
	ReactionNames  []string `json:"reactionNames"`
}

// HasReaction reports whether the message carries a reaction with the given name.
func (m Message) HasReaction(name string) bool {
	for _, n := range m.ReactionNames {
		if n == name {
			return true
		}
	}
	return false
}

type CrawlConfig struct {
	ChannelID string
	BotToken  string
	PageLimit int
}

type NotifyConfig struct {
	ChannelID string
	BotToken  string
}

// Notification is the payload forwarded by Notifier.Notify.
type Notification struct {
	Text string `json:"text"`
}

// HistoryParams is the JSON body of a conversations.history request.
type HistoryParams struct {
	ChannelID string  `json:"channel"`
	Limit     int     `json:"limit"`
	Oldest    float64 `json:"oldest"`
	Latest    string  `json:"latest,omitempty"`
}
