// Package email provides outbound transactional mail delivery.
package email

import "context"

// Message is a single outbound email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers transactional emails. Delivery failures must never
// affect the state change that triggered the mail; callers send
// asynchronously and log errors.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
