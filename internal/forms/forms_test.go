package forms

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedReference(t *testing.T) {
	t.Helper()
	prev := NewReference
	NewReference = func() string { return "REF12345" }
	t.Cleanup(func() { NewReference = prev })
}

func TestContactValidate(t *testing.T) {
	tests := []struct {
		name   string
		form   Contact
		fields map[string]error
	}{
		{
			name: "valid",
			form: Contact{Name: "Ada", Email: "ada@example.com", Message: "Hello"},
		},
		{
			name:   "missing everything",
			form:   Contact{},
			fields: map[string]error{"name": ErrRequired, "email": ErrRequired, "message": ErrRequired},
		},
		{
			name:   "display name in address",
			form:   Contact{Name: "Ada", Email: "Ada <ada@example.com>", Message: "Hi"},
			fields: map[string]error{"email": ErrInvalidEmail},
		},
		{
			name:   "bad address",
			form:   Contact{Name: "Ada", Email: "ada.example.com", Message: "Hi"},
			fields: map[string]error{"email": ErrInvalidEmail},
		},
		{
			name:   "bad phone",
			form:   Contact{Name: "Ada", Email: "ada@example.com", Phone: "call me", Message: "Hi"},
			fields: map[string]error{"phone": ErrInvalidPhone},
		},
		{
			name: "formatted phone",
			form: Contact{Name: "Ada", Email: "ada@example.com", Phone: "+1 (555) 010-2030", Message: "Hi"},
		},
		{
			name:   "message too long",
			form:   Contact{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("x", maxMessage+1)},
			fields: map[string]error{"message": ErrTooLong},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var inv Invalid
			require.True(t, errors.As(err, &inv))
			assert.Len(t, inv, len(tt.fields))
			for f, want := range tt.fields {
				assert.ErrorIs(t, inv[f], want, f)
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestInvalidMessages(t *testing.T) {
	err := Contact{Name: "Ada"}.Validate()
	var inv Invalid
	require.ErrorAs(t, err, &inv)
	msgs := inv.Messages()
	assert.Equal(t, "is required", msgs["email"])
	assert.Equal(t, "invalid form: email is required; message is required", err.Error())
}

func TestContactCompose(t *testing.T) {
	fixedReference(t)
	c := ContactFrom(url.Values{
		"name":    {" Ada Lovelace "},
		"email":   {"ada@example.com"},
		"subject": {"New house"},
		"message": {"We would like a lake house."},
	})
	require.NoError(t, c.Validate())

	e := c.Compose(Recipients{To: []string{"hello@studio.test"}, CC: []string{"office@studio.test"}})
	assert.Equal(t, []string{"hello@studio.test"}, e.To)
	assert.Equal(t, []string{"office@studio.test"}, e.CC)
	assert.Equal(t, "New house from Ada Lovelace", e.Subject)
	assert.Equal(t, "Name: Ada Lovelace\nEmail: ada@example.com\n\nMessage:\nWe would like a lake house.\n\nReference: REF12345\n", e.Body)
}

func TestContactDefaultSubject(t *testing.T) {
	fixedReference(t)
	e := Contact{Name: "Ada", Email: "ada@example.com", Message: "Hi"}.Compose(Recipients{To: []string{"a@b.test"}})
	assert.Equal(t, "Website enquiry from Ada", e.Subject)
	assert.NotContains(t, e.Body, "Phone:")
}

func TestMailtoURL(t *testing.T) {
	e := Email{
		To:      []string{"hello@studio.test", "jobs@studio.test"},
		CC:      []string{"office@studio.test"},
		Subject: "Hi there & welcome",
		Body:    "Line one\nLine two",
	}
	got := e.MailtoURL()
	assert.True(t, strings.HasPrefix(got, "mailto:hello@studio.test,jobs@studio.test?"), got)
	assert.NotContains(t, got, "+")

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Hi there & welcome", q.Get("subject"))
	assert.Equal(t, "Line one\nLine two", q.Get("body"))
	assert.Equal(t, "office@studio.test", q.Get("cc"))
}

func TestGmailURL(t *testing.T) {
	e := Email{To: []string{"hello@studio.test"}, Subject: "S", Body: "B"}
	u, err := url.Parse(e.GmailURL())
	require.NoError(t, err)
	assert.Equal(t, "mail.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "cm", q.Get("view"))
	assert.Equal(t, "hello@studio.test", q.Get("to"))
	assert.Equal(t, "S", q.Get("su"))
	assert.Equal(t, "B", q.Get("body"))
	assert.False(t, q.Has("cc"))
}

func TestContestEntry(t *testing.T) {
	fixedReference(t)
	entry := ContestEntryFrom(url.Values{
		"name":          {"Grace"},
		"email":         {"grace@uni.test"},
		"institution":   {"School of Architecture"},
		"title":         {"Floating Pavilion"},
		"concept":       {"A pavilion on the water."},
		"portfolio_url": {"ftp://example.com/folio"},
	})
	err := entry.Validate()
	assert.ErrorIs(t, err, ErrInvalidURL)

	entry.PortfolioURL = "https://example.com/folio"
	require.NoError(t, entry.Validate())
	e := entry.Compose(Recipients{To: []string{"contest@studio.test"}})
	assert.Equal(t, "Contest entry: Floating Pavilion", e.Subject)
	assert.Contains(t, e.Body, "Institution: School of Architecture\n")
	assert.Contains(t, e.Body, "Portfolio: https://example.com/folio\n")
	assert.Contains(t, e.Body, "\nConcept:\nA pavilion on the water.\n")
}

func TestApplication(t *testing.T) {
	fixedReference(t)
	a := ApplicationFrom(url.Values{"name": {"Linus"}, "email": {"linus@example.com"}}, "j1", "Junior Architect")
	err := a.Validate()
	var inv Invalid
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, map[string]string{"resume_url": "is required"}, inv.Messages())

	a.ResumeURL = "https://example.com/cv.pdf"
	a.CoverLetter = "I love buildings."
	require.NoError(t, a.Validate())
	e := a.Compose(Recipients{To: []string{"careers@studio.test"}})
	assert.Equal(t, "Application: Junior Architect (Linus)", e.Subject)
	assert.Contains(t, e.Body, "Job ID: j1\n")
	assert.Contains(t, e.Body, "\nCover letter:\nI love buildings.\n")
	assert.True(t, strings.HasSuffix(e.Body, "Reference: REF12345\n"))
}

func TestNewReference(t *testing.T) {
	ref := NewReference()
	assert.Len(t, ref, 8)
	assert.Equal(t, strings.ToUpper(ref), ref)
}
