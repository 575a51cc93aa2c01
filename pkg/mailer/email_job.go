package mailer

import (
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/go-ddd-catalog/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	Event    string         `json:"event,omitempty"` // e.g. "user.registered"
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

const EventUserRegistered = "user.registered"

var ErrInvalidJob = errors.New("invalid email job")

// Resolve returns the subject and bodies to send, rendering the template when one is named.
func (j EmailJob) Resolve() (subject, text, html string, err error) {
	if strings.TrimSpace(j.To) == "" {
		return "", "", "", fmt.Errorf("%w: missing recipient", ErrInvalidJob)
	}
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", fmt.Errorf("%w: missing subject or body", ErrInvalidJob)
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	if !mailtpl.Known(j.Template) {
		return "", "", "", fmt.Errorf("%w: unknown template %q", ErrInvalidJob, j.Template)
	}
	data := j.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Email"]; !ok {
		data["Email"] = j.To
	}
	subject, text, html, err = mailtpl.Render(j.Template, data)
	if err != nil {
		return "", "", "", err
	}
	if j.Subject != "" {
		subject = j.Subject
	}
	return subject, text, html, nil
}
