// Package mail delivers the trip planner's transactional emails.
// Services depend on the Gateway interface; cmd/api picks SMTPGateway when an
// SMTP host is configured and LogGateway otherwise.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// String formats the address for a From/To header.
func (a Address) String() string {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", encodeHeaderWord(name), a.Email)
}

// Message is a rendered email ready to send.
type Message struct {
	From     Address
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Delivery is the handle returned for an accepted message.
type Delivery struct {
	MessageID string
}

// Gateway sends a single message.
type Gateway interface {
	Send(ctx context.Context, msg Message) (Delivery, error)
}

// newMessageID returns an RFC 5322 Message-ID under the sender's domain.
func newMessageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
