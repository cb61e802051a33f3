package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// appForm covers the app's own fields for both new and edit-save.
type appForm struct {
	Name     string `form:"name" validate:"required,max=190"`
	Type     string `form:"type" validate:"required"`
	StudioID string `form:"studioId" validate:"required"`
	Comment  string `form:"comment"`
}

// releaseRow is one platform row of the new-app form.
type releaseRow struct {
	PlatformID    string
	ReleaseState  string
	IsEarlyAccess bool
	IsFreeToPlay  bool
	StoreURL      string
}

// studioApps is one studio's apps in the grouped index.
type studioApps struct {
	StudioID   string
	StudioName string
	Apps       []models.App
}

type appIndexView struct {
	Groups []studioApps
}

// handleAppIndex lists every app, grouped by studio in first-appearance
// order of the name-sorted scan.
func (s *Server) handleAppIndex(w http.ResponseWriter, r *http.Request) {
	apps, err := s.apps.FindAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	groupIndex := map[string]int{}
	var groups []studioApps
	for _, app := range apps {
		index, seen := groupIndex[app.StudioID]
		if !seen {
			index = len(groups)
			groupIndex[app.StudioID] = index
			group := studioApps{StudioID: app.StudioID}
			if app.Studio != nil {
				group.StudioName = app.Studio.Name
			}
			groups = append(groups, group)
		}
		groups[index].Apps = append(groups[index].Apps, app)
	}

	s.render(w, r, "apps_index", http.StatusOK, appIndexView{Groups: groups})
}

type appFormView struct {
	App           *models.App
	Form          appForm
	Releases      []releaseRow
	Studios       []models.Studio
	Platforms     []models.Platform
	AppTypes      []string
	ReleaseStates []string
}

func (s *Server) appFormView(r *http.Request) (*appFormView, error) {
	studios, err := s.studios.FindAll(r.Context())
	if err != nil {
		return nil, err
	}
	platforms, err := s.platforms.FindAll(r.Context())
	if err != nil {
		return nil, err
	}
	return &appFormView{
		Studios:       studios,
		Platforms:     platforms,
		AppTypes:      models.AppTypes,
		ReleaseStates: models.ReleaseStates,
	}, nil
}

func (s *Server) handleAppNewForm(w http.ResponseWriter, r *http.Request) {
	view, err := s.appFormView(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	view.Form.Type = models.AppTypeGame
	s.render(w, r, "apps_new", http.StatusOK, view)
}

// parseAppForm reads the app fields and validates the enum values.
func (s *Server) parseAppForm(r *http.Request) (appForm, FieldErrors) {
	form := appForm{
		Name:     r.FormValue("name"),
		Type:     r.FormValue("type"),
		StudioID: r.FormValue("studioId"),
		Comment:  r.FormValue("comment"),
	}
	fields := s.validateForm(form)
	if fields == nil {
		fields = FieldErrors{}
	}
	if form.Type != "" && !models.ValidAppType(form.Type) {
		fields["type"] = "Invalid app type"
	}
	return form, fields
}

// parseReleaseRows reads the platform rows of the new-app form. A row
// is active when its platform checkbox is checked; the row's other
// fields are keyed by platform ID, since only checked checkboxes post
// and positional pairing would drift.
func parseReleaseRows(r *http.Request, fields FieldErrors) []releaseRow {
	earlyAccess := map[string]bool{}
	for _, id := range r.Form["isEarlyAccess"] {
		earlyAccess[id] = true
	}
	freeToPlay := map[string]bool{}
	for _, id := range r.Form["isFreeToPlay"] {
		freeToPlay[id] = true
	}

	seen := map[string]bool{}
	var rows []releaseRow
	for _, platformID := range r.Form["platformId"] {
		if platformID == "" || seen[platformID] {
			continue
		}
		seen[platformID] = true

		row := releaseRow{
			PlatformID:    platformID,
			ReleaseState:  models.ReleaseStateReleased,
			IsEarlyAccess: earlyAccess[platformID],
			IsFreeToPlay:  freeToPlay[platformID],
			StoreURL:      strings.TrimSpace(r.FormValue("storeUrl[" + platformID + "]")),
		}
		if state := r.FormValue("releaseState[" + platformID + "]"); state != "" {
			if !models.ValidReleaseState(state) {
				fields["releaseState"] = "Invalid release state"
				continue
			}
			row.ReleaseState = state
		}
		rows = append(rows, row)
	}
	return rows
}

func (row releaseRow) model() models.AppPlatform {
	appPlatform := models.AppPlatform{
		PlatformID:    row.PlatformID,
		ReleaseState:  row.ReleaseState,
		IsEarlyAccess: row.IsEarlyAccess,
		IsFreeToPlay:  row.IsFreeToPlay,
	}
	if row.StoreURL != "" {
		appPlatform.Links = []models.AppPlatformLink{{
			URL:   row.StoreURL,
			Title: "Store page",
			Type:  models.UrlTypeStorePage,
		}}
	}
	return appPlatform
}

// handleAppNew creates the app, its releases and their store links as
// one transaction.
func (s *Server) handleAppNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form, fields := s.parseAppForm(r)
	releases := parseReleaseRows(r, fields)

	if len(fields) > 0 {
		view, err := s.appFormView(r)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		view.Form = form
		view.Releases = releases
		s.renderWithErrors(w, r, "apps_new", http.StatusBadRequest, view, fields)
		return
	}

	app := models.App{
		Name:     form.Name,
		Type:     form.Type,
		StudioID: form.StudioID,
		Comment:  optional(form.Comment),
	}
	platforms := make([]models.AppPlatform, 0, len(releases))
	for _, row := range releases {
		platforms = append(platforms, row.model())
	}
	if err := s.apps.Create(r.Context(), &app, platforms); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "App created")
	http.Redirect(w, r, "/admin/apps/"+app.ID, http.StatusSeeOther)
}

type appShowView struct {
	App *models.App
}

func (s *Server) handleAppShow(w http.ResponseWriter, r *http.Request) {
	app, err := s.apps.FindByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if app == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, r, "apps_show", http.StatusOK, appShowView{App: app})
}

func (s *Server) handleAppEditForm(w http.ResponseWriter, r *http.Request) {
	app, err := s.apps.FindByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if app == nil {
		s.notFound(w, r)
		return
	}

	view, err := s.appFormView(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	view.App = app
	view.Form = appForm{Name: app.Name, Type: app.Type, StudioID: app.StudioID, Comment: deref(app.Comment)}
	s.render(w, r, "apps_edit", http.StatusOK, view)
}

// handleAppEdit serves the dual-purpose edit form plus the per-release
// remove-platform intent.
func (s *Server) handleAppEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	app, err := s.apps.FindByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if app == nil {
		s.notFound(w, r)
		return
	}

	switch r.FormValue("intent") {
	case "remove":
		if err := s.apps.Delete(r.Context(), app.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "App removed")
		http.Redirect(w, r, "/admin/apps", http.StatusSeeOther)

	case "remove-platform":
		appPlatformID := r.FormValue("appPlatformId")
		appPlatform, err := s.apps.FindAppPlatformByID(r.Context(), appPlatformID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if appPlatform == nil || appPlatform.AppID != app.ID {
			s.notFound(w, r)
			return
		}
		if err := s.apps.DeleteAppPlatform(r.Context(), appPlatformID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Release removed")
		http.Redirect(w, r, "/admin/apps/"+app.ID, http.StatusSeeOther)

	case "save":
		form, fields := s.parseAppForm(r)
		if len(fields) > 0 {
			view, err := s.appFormView(r)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			view.App = app
			view.Form = form
			s.renderWithErrors(w, r, "apps_edit", http.StatusBadRequest, view, fields)
			return
		}

		app.Name = form.Name
		app.Type = form.Type
		app.StudioID = form.StudioID
		app.Comment = optional(form.Comment)
		if err := s.apps.Update(r.Context(), app); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "App saved")
		http.Redirect(w, r, "/admin/apps/"+app.ID, http.StatusSeeOther)

	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}

type appNewPlatformView struct {
	App *models.App
	// Platforms the app has no release on yet.
	Platforms     []models.Platform
	ReleaseStates []string
	UrlTypes      []string
	MaxLinks      int
}

func (s *Server) appNewPlatformView(r *http.Request, app *models.App) (*appNewPlatformView, error) {
	platforms, err := s.platforms.FindAll(r.Context())
	if err != nil {
		return nil, err
	}

	taken := map[string]bool{}
	for _, appPlatform := range app.AppPlatforms {
		taken[appPlatform.PlatformID] = true
	}
	available := make([]models.Platform, 0, len(platforms))
	for _, platform := range platforms {
		if !taken[platform.ID] {
			available = append(available, platform)
		}
	}

	return &appNewPlatformView{
		App:           app,
		Platforms:     available,
		ReleaseStates: models.ReleaseStates,
		UrlTypes:      models.UrlTypes,
		MaxLinks:      s.cfg.MaxLinkCount,
	}, nil
}

func (s *Server) handleAppNewPlatformForm(w http.ResponseWriter, r *http.Request) {
	app, err := s.apps.FindByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if app == nil {
		s.notFound(w, r)
		return
	}

	view, err := s.appNewPlatformView(r, app)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "apps_new_platform", http.StatusOK, view)
}

func (s *Server) handleAppNewPlatform(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	app, err := s.apps.FindByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if app == nil {
		s.notFound(w, r)
		return
	}

	fields := FieldErrors{}
	platformID := r.FormValue("platformId")
	if platformID == "" {
		fields["platformId"] = "Required"
	}
	for _, appPlatform := range app.AppPlatforms {
		if appPlatform.PlatformID == platformID {
			fields["platformId"] = "App already has a release on this platform"
		}
	}
	releaseState := r.FormValue("releaseState")
	if releaseState == "" {
		releaseState = models.ReleaseStateReleased
	} else if !models.ValidReleaseState(releaseState) {
		fields["releaseState"] = "Invalid release state"
	}
	links := s.parseLinkRows(r, fields)

	if len(fields) > 0 {
		view, err := s.appNewPlatformView(r, app)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		s.renderWithErrors(w, r, "apps_new_platform", http.StatusBadRequest, view, fields)
		return
	}

	appPlatform := models.AppPlatform{
		AppID:         app.ID,
		PlatformID:    platformID,
		ReleaseState:  releaseState,
		IsEarlyAccess: checkbox(r.FormValue("isEarlyAccess")),
		IsFreeToPlay:  checkbox(r.FormValue("isFreeToPlay")),
		Comment:       optional(r.FormValue("comment")),
	}
	for _, link := range links {
		appPlatform.Links = append(appPlatform.Links, link.releaseLink(""))
	}
	if err := s.apps.AddPlatform(r.Context(), &appPlatform); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "Release added")
	http.Redirect(w, r, "/admin/apps/"+app.ID, http.StatusSeeOther)
}
