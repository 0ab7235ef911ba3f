// Package forms validates the site's enquiry forms and turns them into
// pre-filled emails. Nothing submitted is stored: the visitor's own mail
// client sends the message.
package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrRequired     = errors.New("is required")
	ErrInvalidEmail = errors.New("is not a valid email address")
	ErrInvalidPhone = errors.New("is not a valid phone number")
	ErrInvalidURL   = errors.New("must be an http or https link")
	ErrTooLong      = errors.New("is too long")
)

// maxMessage bounds free-text fields; mailto links longer than a few
// kilobytes are truncated by most clients.
const maxMessage = 4000

// Invalid maps a form field name to what is wrong with it.
type Invalid map[string]error

func (v Invalid) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + v[f].Error()
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (v Invalid) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, err := range v {
		errs = append(errs, err)
	}
	return errs
}

// Messages returns the per-field text shown next to each input.
func (v Invalid) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for f, err := range v {
		out[f] = err.Error()
	}
	return out
}

func (v Invalid) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v Invalid) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v[field] = ErrRequired
	}
}

func (v Invalid) email(field, value string) {
	if strings.TrimSpace(value) == "" {
		v[field] = ErrRequired
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" {
		v[field] = ErrInvalidEmail
	}
}

func (v Invalid) phone(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	digits := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("+-(). ", r):
		default:
			v[field] = ErrInvalidPhone
			return
		}
	}
	if digits < 7 || digits > 15 {
		v[field] = ErrInvalidPhone
	}
}

func (v Invalid) link(field, value string, required bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			v[field] = ErrRequired
		}
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v[field] = ErrInvalidURL
	}
}

func (v Invalid) length(field, value string) {
	if len(value) > maxMessage {
		v[field] = ErrTooLong
	}
}

// Recipients are the studio addresses a form is sent to.
type Recipients struct {
	To []string
	CC []string
}

// Email is a composed message, ready to open in a mail client.
type Email struct {
	To      []string
	CC      []string
	Subject string
	Body    string
}

// MailtoURL renders e as an RFC 6068 mailto link.
func (e Email) MailtoURL() string {
	to := make([]string, len(e.To))
	for i, addr := range e.To {
		to[i] = url.PathEscape(addr)
	}
	q := url.Values{}
	if len(e.CC) > 0 {
		q.Set("cc", strings.Join(e.CC, ","))
	}
	q.Set("subject", e.Subject)
	q.Set("body", e.Body)
	// Mail clients do not decode '+' as a space.
	return "mailto:" + strings.Join(to, ",") + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// GmailURL renders e as a Gmail web compose link.
func (e Email) GmailURL() string {
	q := url.Values{}
	q.Set("view", "cm")
	q.Set("fs", "1")
	q.Set("to", strings.Join(e.To, ","))
	if len(e.CC) > 0 {
		q.Set("cc", strings.Join(e.CC, ","))
	}
	q.Set("su", e.Subject)
	q.Set("body", e.Body)
	return "https://mail.google.com/mail/?" + q.Encode()
}

// NewReference returns a short reference quoted in every composed
// email so the studio can match replies.
var NewReference = func() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

type body struct {
	strings.Builder
}

func (b *body) field(label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

func (b *body) section(label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(b, "\n%s:\n%s\n", label, value)
	}
}

func (b *body) finish() string {
	fmt.Fprintf(b, "\nReference: %s\n", NewReference())
	return b.String()
}

func compose(r Recipients, subject string, b *body) Email {
	return Email{
		To:      append([]string(nil), r.To...),
		CC:      append([]string(nil), r.CC...),
		Subject: subject,
		Body:    b.finish(),
	}
}
