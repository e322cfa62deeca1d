package notifx

type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	CC       []string `json:"cc,omitempty"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
}

// WhatsAppMessage is a single text message. To is normalized before sending.
type WhatsAppMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Receipt is what a provider reports back for one accepted message.
type Receipt struct {
	MessageID string `json:"message_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

// SendResult represents the outcome of a single send attempt.
type SendResult struct {
	Channel   Channel `json:"channel"`
	To        string  `json:"to"`
	MessageID string  `json:"message_id,omitempty"`
	Success   bool    `json:"success"`
	Error     string  `json:"error,omitempty"`
}
