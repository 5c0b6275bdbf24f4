package mailer

// Message is one outbound plaintext email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer submits a message over an outbound transport. Send blocks until
// the transport accepts or rejects the message; there are no retries and
// no delivery receipt beyond the returned error.
type Mailer interface {
	Send(msg Message) error
}
