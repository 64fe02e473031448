package mail

import "context"

// Sender delivers transactional email. Implementations report failure as
// an error; callers treat any failure as "not sent" and abort the flow
// that depended on it.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}
