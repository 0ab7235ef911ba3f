package forms

import (
	"net/url"
	"strings"
)

// Contact is the general enquiry form.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactFrom reads a Contact from posted form values.
func ContactFrom(v url.Values) Contact {
	return Contact{
		Name:    strings.TrimSpace(v.Get("name")),
		Email:   strings.TrimSpace(v.Get("email")),
		Phone:   strings.TrimSpace(v.Get("phone")),
		Subject: strings.TrimSpace(v.Get("subject")),
		Message: strings.TrimSpace(v.Get("message")),
	}
}

func (c Contact) Validate() error {
	v := Invalid{}
	v.required("name", c.Name)
	v.email("email", c.Email)
	v.phone("phone", c.Phone)
	v.required("message", c.Message)
	v.length("message", c.Message)
	return v.orNil()
}

func (c Contact) Compose(r Recipients) Email {
	subject := c.Subject
	if subject == "" {
		subject = "Website enquiry"
	}
	var b body
	b.field("Name", c.Name)
	b.field("Email", c.Email)
	b.field("Phone", c.Phone)
	b.section("Message", c.Message)
	return compose(r, subject+" from "+c.Name, &b)
}

// ContestEntry is a submission to the student design contest.
type ContestEntry struct {
	Name         string
	Email        string
	Phone        string
	Institution  string
	Title        string
	Concept      string
	PortfolioURL string
}

func ContestEntryFrom(v url.Values) ContestEntry {
	return ContestEntry{
		Name:         strings.TrimSpace(v.Get("name")),
		Email:        strings.TrimSpace(v.Get("email")),
		Phone:        strings.TrimSpace(v.Get("phone")),
		Institution:  strings.TrimSpace(v.Get("institution")),
		Title:        strings.TrimSpace(v.Get("title")),
		Concept:      strings.TrimSpace(v.Get("concept")),
		PortfolioURL: strings.TrimSpace(v.Get("portfolio_url")),
	}
}

func (e ContestEntry) Validate() error {
	v := Invalid{}
	v.required("name", e.Name)
	v.email("email", e.Email)
	v.phone("phone", e.Phone)
	v.required("institution", e.Institution)
	v.required("title", e.Title)
	v.required("concept", e.Concept)
	v.length("concept", e.Concept)
	v.link("portfolio_url", e.PortfolioURL, false)
	return v.orNil()
}

func (e ContestEntry) Compose(r Recipients) Email {
	var b body
	b.field("Name", e.Name)
	b.field("Email", e.Email)
	b.field("Phone", e.Phone)
	b.field("Institution", e.Institution)
	b.field("Portfolio", e.PortfolioURL)
	b.section("Concept", e.Concept)
	return compose(r, "Contest entry: "+e.Title, &b)
}

// Application is a job application for an open position.
type Application struct {
	JobID       string
	Position    string
	Name        string
	Email       string
	Phone       string
	ResumeURL   string
	CoverLetter string
}

// ApplicationFrom reads an Application for the given opening.
func ApplicationFrom(v url.Values, jobID, position string) Application {
	return Application{
		JobID:       jobID,
		Position:    position,
		Name:        strings.TrimSpace(v.Get("name")),
		Email:       strings.TrimSpace(v.Get("email")),
		Phone:       strings.TrimSpace(v.Get("phone")),
		ResumeURL:   strings.TrimSpace(v.Get("resume_url")),
		CoverLetter: strings.TrimSpace(v.Get("cover_letter")),
	}
}

func (a Application) Validate() error {
	v := Invalid{}
	v.required("job_id", a.JobID)
	v.required("position", a.Position)
	v.required("name", a.Name)
	v.email("email", a.Email)
	v.phone("phone", a.Phone)
	v.link("resume_url", a.ResumeURL, true)
	v.length("cover_letter", a.CoverLetter)
	return v.orNil()
}

func (a Application) Compose(r Recipients) Email {
	var b body
	b.field("Position", a.Position)
	b.field("Job ID", a.JobID)
	b.field("Name", a.Name)
	b.field("Email", a.Email)
	b.field("Phone", a.Phone)
	b.field("Resume", a.ResumeURL)
	b.section("Cover letter", a.CoverLetter)
	return compose(r, "Application: "+a.Position+" ("+a.Name+")", &b)
}
