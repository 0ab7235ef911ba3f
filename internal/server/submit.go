package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bryan-buckman/studiofront/internal/config"
	"github.com/bryan-buckman/studiofront/internal/forms"
	"github.com/bryan-buckman/studiofront/internal/model"
)

func recipients(m config.MailConfig) forms.Recipients {
	return forms.Recipients{To: m.To, CC: m.CC}
}

// formPage returns a page for a form template with its values and
// field errors, both keyed by input name.
func (s *Server) formPage(title, active string, values url.Values, err error) *page {
	p := s.newPage(title, active)
	v := map[string]string{}
	for k := range values {
		v[k] = values.Get(k)
	}
	p.Data["Values"] = v
	p.Data["Errors"] = map[string]string{}
	var inv forms.Invalid
	if errors.As(err, &inv) {
		p.Data["Errors"] = inv.Messages()
	}
	return p
}

// send redirects the browser to a pre-filled message in its mail
// client, or in Gmail when the visitor picked it.
func send(w http.ResponseWriter, r *http.Request, form string, e forms.Email) {
	target := e.MailtoURL()
	if r.FormValue("via") == "gmail" {
		target = e.GmailURL()
	}
	slog.Info("form composed", "form", form, "request_id", requestID(r))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "contact.html", s.formPage("Contact", "contact", nil, nil))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "That form submission could not be read.")
		return
	}
	c := forms.ContactFrom(r.PostForm)
	if err := c.Validate(); err != nil {
		s.render(w, http.StatusUnprocessableEntity, "contact.html", s.formPage("Contact", "contact", r.PostForm, err))
		return
	}
	send(w, r, "contact", c.Compose(recipients(s.cfg.Contact)))
}

func (s *Server) handleContestForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "contest.html", s.formPage("Design Contest", "contest", nil, nil))
}

func (s *Server) handleContest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "That form submission could not be read.")
		return
	}
	entry := forms.ContestEntryFrom(r.PostForm)
	if err := entry.Validate(); err != nil {
		s.render(w, http.StatusUnprocessableEntity, "contest.html", s.formPage("Design Contest", "contest", r.PostForm, err))
		return
	}
	send(w, r, "contest", entry.Compose(recipients(s.cfg.Contest)))
}

func (s *Server) job(w http.ResponseWriter, r *http.Request) (*model.JobOpening, bool) {
	job, err := s.client.Job(r.Context(), chi.URLParam(r, "id"))
	if s.detailFailed(w, model.CollectionJobs, err) {
		return nil, false
	}
	return job, true
}

func (s *Server) handleApplyForm(w http.ResponseWriter, r *http.Request) {
	job, ok := s.job(w, r)
	if !ok {
		return
	}
	p := s.formPage("Apply: "+job.Position, "careers", nil, nil)
	p.Data["Job"] = job
	s.render(w, http.StatusOK, "apply.html", p)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "That form submission could not be read.")
		return
	}
	job, ok := s.job(w, r)
	if !ok {
		return
	}
	app := forms.ApplicationFrom(r.PostForm, job.ID, job.Position)
	if err := app.Validate(); err != nil {
		p := s.formPage("Apply: "+job.Position, "careers", r.PostForm, err)
		p.Data["Job"] = job
		s.render(w, http.StatusUnprocessableEntity, "apply.html", p)
		return
	}
	send(w, r, "application", app.Compose(recipients(s.cfg.Careers)))
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
