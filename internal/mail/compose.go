package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/plannr/trip-planner/internal/domain"
)

// longDate is the human-friendly date layout used in email bodies.
const longDate = "January 2, 2006"

// ComposerConfig controls sender identity and the links placed in emails.
type ComposerConfig struct {
	From Address
	// APIBaseURL is where confirmation links point, e.g. "http://localhost:8080".
	APIBaseURL string
	// Location is the timezone trip dates are printed in. Nil means UTC.
	Location *time.Location
}

// Composer renders the trip planner's emails.
type Composer struct {
	cfg  ComposerConfig
	html *htmltemplate.Template
	text *texttemplate.Template
}

// emailData feeds both the HTML and the plain-text template.
type emailData struct {
	Heading     string
	Intro       string
	Destination string
	StartDate   string
	EndDate     string
	ButtonURL   string
	ButtonText  string
}

// NewComposer parses the templates once.
func NewComposer(cfg ComposerConfig) *Composer {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return &Composer{
		cfg:  cfg,
		html: htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate)),
		text: texttemplate.Must(texttemplate.New("text").Parse(textTemplate)),
	}
}

// TripConfirmation asks the trip owner to confirm the trip they just created.
func (c *Composer) TripConfirmation(trip domain.Trip, owner domain.Participant) (Message, error) {
	data := c.tripData(trip)
	data.Heading = "Confirm your trip"
	data.Intro = "You asked to create a trip to"
	data.ButtonURL = c.link("trips", trip.ID.String(), "confirm")
	data.ButtonText = "Confirm trip"

	subject := fmt.Sprintf("Confirm your trip to %s on %s", trip.Destination, data.StartDate)
	return c.render(owner.Email, subject, data)
}

// Invitation invites a participant and links to their personal confirmation URL.
func (c *Composer) Invitation(trip domain.Trip, p domain.Participant) (Message, error) {
	data := c.tripData(trip)
	data.Heading = "You are invited"
	data.Intro = "You have been invited to join a trip to"
	data.ButtonURL = c.link("trips", trip.ID.String(), "confirm", p.ID.String())
	data.ButtonText = "Confirm attendance"

	subject := fmt.Sprintf("Confirm your attendance on the trip to %s on %s", trip.Destination, data.StartDate)
	return c.render(p.Email, subject, data)
}

func (c *Composer) tripData(trip domain.Trip) emailData {
	return emailData{
		Destination: trip.Destination,
		StartDate:   trip.StartsAt.In(c.cfg.Location).Format(longDate),
		EndDate:     trip.EndsAt.In(c.cfg.Location).Format(longDate),
	}
}

// link joins path segments onto the API base URL, escaping each one.
func (c *Composer) link(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.cfg.APIBaseURL)
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func (c *Composer) render(to, subject string, data emailData) (Message, error) {
	var hb, tb bytes.Buffer
	if err := c.html.Execute(&hb, data); err != nil {
		return Message{}, fmt.Errorf("mail.Composer: html: %w", err)
	}
	if err := c.text.Execute(&tb, data); err != nil {
		return Message{}, fmt.Errorf("mail.Composer: text: %w", err)
	}
	return Message{
		From:     c.cfg.From,
		To:       to,
		Subject:  subject,
		HTMLBody: hb.String(),
		TextBody: tb.String(),
	}, nil
}

const htmlTemplate = `<div style="font-family: sans-serif; font-size: 16px; line-height: 160%">
  <p>{{.Intro}} <strong>{{.Destination}}</strong> from <strong>{{.StartDate}}</strong> to <strong>{{.EndDate}}</strong>.</p>
  <p></p>
  <p>To confirm, click the link below:</p>
  <p></p>
  <p><a href="{{.ButtonURL}}">{{.ButtonText}}</a></p>
  <p></p>
  <p>If you don't know what this email is about, just ignore it.</p>
</div>`

const textTemplate = `{{.Heading}}

{{.Intro}} {{.Destination}} from {{.StartDate}} to {{.EndDate}}.

{{.ButtonText}}: {{.ButtonURL}}

If you don't know what this email is about, just ignore it.
`
