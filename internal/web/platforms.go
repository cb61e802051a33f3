package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

type platformForm struct {
	Name    string `form:"name" validate:"required,max=190"`
	Type    string `form:"type" validate:"required"`
	URL     string `form:"url" validate:"omitempty,url"`
	Comment string `form:"comment"`
}

type platformIndexView struct {
	Platforms []models.Platform
}

func (s *Server) handlePlatformIndex(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.platforms.FindAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "platforms_index", http.StatusOK, platformIndexView{Platforms: platforms})
}

type platformFormView struct {
	Platform      *models.Platform
	Form          platformForm
	PlatformTypes []string
}

func (s *Server) handlePlatformNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "platforms_new", http.StatusOK, platformFormView{
		Form:          platformForm{Type: models.PlatformTypeGeneric},
		PlatformTypes: models.PlatformTypes,
	})
}

func (s *Server) parsePlatformForm(r *http.Request) (platformForm, FieldErrors) {
	form := platformForm{
		Name:    r.FormValue("name"),
		Type:    r.FormValue("type"),
		URL:     r.FormValue("url"),
		Comment: r.FormValue("comment"),
	}
	fields := s.validateForm(form)
	if fields == nil {
		fields = FieldErrors{}
	}
	if form.Type != "" && !models.ValidPlatformType(form.Type) {
		fields["type"] = "Invalid platform type"
	}
	return form, fields
}

func (s *Server) handlePlatformNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form, fields := s.parsePlatformForm(r)
	if existing, err := s.platforms.FindByName(r.Context(), form.Name); err != nil {
		s.serverError(w, r, err)
		return
	} else if existing != nil {
		fields["name"] = "A platform already exists with this name"
	}

	if len(fields) > 0 {
		view := platformFormView{Form: form, PlatformTypes: models.PlatformTypes}
		s.renderWithErrors(w, r, "platforms_new", http.StatusBadRequest, view, fields)
		return
	}

	platform := models.Platform{
		Name:    form.Name,
		Type:    form.Type,
		URL:     optional(form.URL),
		Comment: optional(form.Comment),
	}
	if err := s.platforms.Create(r.Context(), &platform); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "Platform created")
	http.Redirect(w, r, "/admin/platforms/"+platform.ID, http.StatusSeeOther)
}

type platformShowView struct {
	Platform     *models.Platform
	ReleaseCount int64
}

func (s *Server) handlePlatformShow(w http.ResponseWriter, r *http.Request) {
	platform, err := s.platforms.FindByID(r.Context(), chi.URLParam(r, "platformID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if platform == nil {
		s.notFound(w, r)
		return
	}

	releaseCount, err := s.platforms.CountReleases(r.Context(), platform.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "platforms_show", http.StatusOK, platformShowView{
		Platform:     platform,
		ReleaseCount: releaseCount,
	})
}

func (s *Server) handlePlatformEditForm(w http.ResponseWriter, r *http.Request) {
	platform, err := s.platforms.FindByID(r.Context(), chi.URLParam(r, "platformID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if platform == nil {
		s.notFound(w, r)
		return
	}

	s.render(w, r, "platforms_edit", http.StatusOK, platformFormView{
		Platform: platform,
		Form: platformForm{
			Name:    platform.Name,
			Type:    platform.Type,
			URL:     deref(platform.URL),
			Comment: deref(platform.Comment),
		},
		PlatformTypes: models.PlatformTypes,
	})
}

func (s *Server) handlePlatformEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	platform, err := s.platforms.FindByID(r.Context(), chi.URLParam(r, "platformID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if platform == nil {
		s.notFound(w, r)
		return
	}

	switch r.FormValue("intent") {
	case "remove":
		releaseCount, err := s.platforms.CountReleases(r.Context(), platform.ID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if releaseCount > 0 {
			view := platformFormView{
				Platform:      platform,
				Form:          platformForm{Name: platform.Name, Type: platform.Type, URL: deref(platform.URL), Comment: deref(platform.Comment)},
				PlatformTypes: models.PlatformTypes,
			}
			s.renderWithErrors(w, r, "platforms_edit", http.StatusBadRequest, view, FieldErrors{
				"platform": "Platform still has releases and cannot be removed",
			})
			return
		}
		if err := s.platforms.Delete(r.Context(), platform.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Platform removed")
		http.Redirect(w, r, "/admin/platforms", http.StatusSeeOther)

	case "save":
		form, fields := s.parsePlatformForm(r)
		if form.Name != platform.Name {
			if existing, err := s.platforms.FindByName(r.Context(), form.Name); err != nil {
				s.serverError(w, r, err)
				return
			} else if existing != nil {
				fields["name"] = "A platform already exists with this name"
			}
		}
		if len(fields) > 0 {
			view := platformFormView{Platform: platform, Form: form, PlatformTypes: models.PlatformTypes}
			s.renderWithErrors(w, r, "platforms_edit", http.StatusBadRequest, view, fields)
			return
		}

		platform.Name = form.Name
		platform.Type = form.Type
		platform.URL = optional(form.URL)
		platform.Comment = optional(form.Comment)
		if err := s.platforms.Update(r.Context(), platform); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Platform saved")
		http.Redirect(w, r, "/admin/platforms/"+platform.ID, http.StatusSeeOther)

	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}
