package contact

// Message is one contact form submission as the visitor typed it.
// It is handled by value and is never stored.
type Message struct {
	SenderName  string
	SenderEmail string
	Body        string
}

// Envelope is the fully composed payload handed to a Transport.
type Envelope struct {
	From string
	To   []string
	Data []byte
}
