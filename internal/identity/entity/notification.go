package entity

// Template names a message kind; the SMS adapter maps it to a gateway template.
type Template string

const (
	TemplateVerificationCode Template = "verification-code"
	TemplateWelcome          Template = "welcome"
)

// Notification is one message to deliver to a phone.
type Notification struct {
	Receptor string
	Token    string
	Template Template
}
