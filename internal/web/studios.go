package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// studioForm covers both the new and the edit-save submissions.
type studioForm struct {
	Name    string `form:"name" validate:"required,max=190"`
	Comment string `form:"comment"`
}

type studioIndexView struct {
	Studios []models.Studio
}

func (s *Server) handleStudioIndex(w http.ResponseWriter, r *http.Request) {
	studios, err := s.studios.FindAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "studios_index", http.StatusOK, studioIndexView{Studios: studios})
}

type studioFormView struct {
	Studio   *models.Studio
	Form     studioForm
	Links    []linkRow
	UrlTypes []string
	MaxLinks int
}

func (s *Server) handleStudioNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "studios_new", http.StatusOK, studioFormView{
		UrlTypes: models.UrlTypes,
		MaxLinks: s.cfg.MaxLinkCount,
	})
}

func (s *Server) handleStudioNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := studioForm{
		Name:    r.FormValue("name"),
		Comment: r.FormValue("comment"),
	}
	fields := s.validateForm(form)
	if fields == nil {
		fields = FieldErrors{}
	}
	links := s.parseLinkRows(r, fields)

	view := studioFormView{Form: form, Links: links, UrlTypes: models.UrlTypes, MaxLinks: s.cfg.MaxLinkCount}
	if len(fields) > 0 {
		s.renderWithErrors(w, r, "studios_new", http.StatusBadRequest, view, fields)
		return
	}

	studio := models.Studio{Name: form.Name, Comment: optional(form.Comment)}
	studioLinks := make([]models.StudioLink, 0, len(links))
	for _, link := range links {
		studioLinks = append(studioLinks, link.studioLink(""))
	}
	if err := s.studios.Create(r.Context(), &studio, studioLinks); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "Studio created")
	http.Redirect(w, r, "/admin/studios/"+studio.ID, http.StatusSeeOther)
}

type studioShowView struct {
	Studio        *models.Studio
	Apps          []models.App
	EligibleUsers []models.User
}

func (s *Server) handleStudioShow(w http.ResponseWriter, r *http.Request) {
	studioID := chi.URLParam(r, "studioID")
	studio, err := s.studios.FindByID(r.Context(), studioID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if studio == nil {
		s.notFound(w, r)
		return
	}

	apps, err := s.apps.FindByStudioID(r.Context(), studioID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	eligibleUsers, err := s.users.FindNotMemberOfStudio(r.Context(), studioID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "studios_show", http.StatusOK, studioShowView{
		Studio:        studio,
		Apps:          apps,
		EligibleUsers: eligibleUsers,
	})
}

func (s *Server) handleStudioEditForm(w http.ResponseWriter, r *http.Request) {
	studio, err := s.studios.FindByID(r.Context(), chi.URLParam(r, "studioID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if studio == nil {
		s.notFound(w, r)
		return
	}

	links := make([]linkRow, 0, len(studio.Links))
	for _, link := range studio.Links {
		links = append(links, linkRow{URL: link.URL, Title: link.Title, Type: link.Type})
	}
	s.render(w, r, "studios_edit", http.StatusOK, studioFormView{
		Studio:   studio,
		Form:     studioForm{Name: studio.Name, Comment: deref(studio.Comment)},
		Links:    links,
		UrlTypes: models.UrlTypes,
		MaxLinks: s.cfg.MaxLinkCount,
	})
}

// handleStudioEdit serves the dual-purpose edit form: the intent field
// selects save or remove.
func (s *Server) handleStudioEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	studio, err := s.studios.FindByID(r.Context(), chi.URLParam(r, "studioID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if studio == nil {
		s.notFound(w, r)
		return
	}

	switch r.FormValue("intent") {
	case "remove":
		if err := s.studios.Delete(r.Context(), studio.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Studio removed")
		http.Redirect(w, r, "/admin/studios", http.StatusSeeOther)

	case "save":
		form := studioForm{
			Name:    r.FormValue("name"),
			Comment: r.FormValue("comment"),
		}
		fields := s.validateForm(form)
		if fields == nil {
			fields = FieldErrors{}
		}
		links := s.parseLinkRows(r, fields)

		if len(fields) > 0 {
			view := studioFormView{Studio: studio, Form: form, Links: links, UrlTypes: models.UrlTypes, MaxLinks: s.cfg.MaxLinkCount}
			s.renderWithErrors(w, r, "studios_edit", http.StatusBadRequest, view, fields)
			return
		}

		studio.Name = form.Name
		studio.Comment = optional(form.Comment)
		studioLinks := make([]models.StudioLink, 0, len(links))
		for _, link := range links {
			studioLinks = append(studioLinks, link.studioLink(studio.ID))
		}
		if err := s.studios.Update(r.Context(), studio, studioLinks); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Studio saved")
		http.Redirect(w, r, "/admin/studios/"+studio.ID, http.StatusSeeOther)

	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}

func (s *Server) handleStudioAddMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	studioID := chi.URLParam(r, "studioID")
	studio, err := s.studios.FindByID(r.Context(), studioID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if studio == nil {
		s.notFound(w, r)
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	user, err := s.users.FindByID(r.Context(), userID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if user == nil {
		s.notFound(w, r)
		return
	}

	member := models.StudioMember{
		StudioID: studioID,
		UserID:   userID,
		Position: optional(r.FormValue("position")),
	}
	setAsMainContact := checkbox(r.FormValue("setAsMainContact"))
	if err := s.studios.AddMember(r.Context(), &member, setAsMainContact); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "Member added")
	http.Redirect(w, r, "/admin/studios/"+studioID, http.StatusSeeOther)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
