package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/wizard"
)

type wizardStepOneView struct {
	Event   *models.Event
	GroupBy wizard.GroupBy
	Groups  []wizard.Group
}

// handleWizardStepOne renders the app picker, optionally grouped by
// studio or platform.
func (s *Server) handleWizardStepOne(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	groupBy := wizard.ParseGroupBy(r.URL.Query().Get("groupBy"))
	groups, err := s.wizard.GroupedEligibleApps(r.Context(), event.ID, groupBy)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "wizard_step_one", http.StatusOK, wizardStepOneView{
		Event:   event,
		GroupBy: groupBy,
		Groups:  groups,
	})
}

// handleWizardStepOnePost stashes the selection in the session flash and
// moves to step two. Checkbox values are the app ID, or app and release
// ID joined with a colon when grouped by platform.
func (s *Server) handleWizardStepOnePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	groupBy := wizard.ParseGroupBy(r.FormValue("groupBy"))
	selection := wizard.Selection{GroupBy: groupBy}
	for _, value := range r.Form["apps"] {
		if value == "" {
			continue
		}
		selected := wizard.SelectedApp{AppID: value}
		if appID, appPlatformID, found := strings.Cut(value, ":"); found {
			selected = wizard.SelectedApp{AppID: appID, AppPlatformID: appPlatformID}
		}
		selection.Apps = append(selection.Apps, selected)
	}

	if len(selection.Apps) == 0 {
		groups, err := s.wizard.GroupedEligibleApps(r.Context(), event.ID, groupBy)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		view := wizardStepOneView{Event: event, GroupBy: groupBy, Groups: groups}
		s.renderWithErrors(w, r, "wizard_step_one", http.StatusBadRequest, view, FieldErrors{
			"apps": "No apps selected",
		})
		return
	}

	payload, err := selection.Encode()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.sessions.PutWizardSelection(w, r, payload); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/events/"+event.ID+"/apps/add-apps/select-platforms", http.StatusSeeOther)
}

type wizardStepTwoView struct {
	Event    *models.Event
	Apps     []wizard.StepApp
	Statuses []string
}

// handleWizardStepTwo consumes the stashed selection and renders the
// per-release status form. A reload after the flash was consumed goes
// back to step one.
func (s *Server) handleWizardStepTwo(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	payload, ok := s.sessions.PopWizardSelection(w, r)
	if !ok {
		http.Redirect(w, r, "/admin/events/"+event.ID+"/apps/add-apps", http.StatusSeeOther)
		return
	}
	selection, err := wizard.DecodeSelection(payload)
	if err != nil {
		http.Redirect(w, r, "/admin/events/"+event.ID+"/apps/add-apps", http.StatusSeeOther)
		return
	}

	apps, err := s.wizard.EligibleForSelection(r.Context(), event.ID, selection)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "wizard_step_two", http.StatusOK, wizardStepTwoView{
		Event:    event,
		Apps:     apps,
		Statuses: models.EventAppPlatformStatuses,
	})
}

// parseWizardSubmission scans the indexed step-two fields:
// apps[i].appId plus apps[i].appPlatforms[j].{appPlatformId,checked,
// status,comment}.
func parseWizardSubmission(r *http.Request) []wizard.SubmittedApp {
	var apps []wizard.SubmittedApp
	for appIndex := 0; ; appIndex++ {
		appKey := fmt.Sprintf("apps[%d].appId", appIndex)
		if r.FormValue(appKey) == "" {
			break
		}

		var app wizard.SubmittedApp
		for releaseIndex := 0; ; releaseIndex++ {
			prefix := fmt.Sprintf("apps[%d].appPlatforms[%d].", appIndex, releaseIndex)
			appPlatformID := r.FormValue(prefix + "appPlatformId")
			if appPlatformID == "" {
				break
			}
			app.Releases = append(app.Releases, wizard.SubmittedRelease{
				AppPlatformID: appPlatformID,
				Checked:       checkbox(r.FormValue(prefix + "checked")),
				Status:        r.FormValue(prefix + "status"),
				Comment:       r.FormValue(prefix + "comment"),
			})
		}
		apps = append(apps, app)
	}
	return apps
}

// submittedSelection rebuilds a step-one selection from the posted form
// so a failed validation can re-render step two without the consumed
// flash.
func submittedSelection(r *http.Request) wizard.Selection {
	var selection wizard.Selection
	for appIndex := 0; ; appIndex++ {
		appID := r.FormValue(fmt.Sprintf("apps[%d].appId", appIndex))
		if appID == "" {
			break
		}
		selection.Apps = append(selection.Apps, wizard.SelectedApp{AppID: appID})
	}
	return selection
}

func (s *Server) handleWizardStepTwoPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	submission := parseWizardSubmission(r)
	if err := s.wizard.Save(r.Context(), event.ID, submission); err != nil {
		var validationErr *wizard.ValidationError
		if errors.As(err, &validationErr) {
			apps, err := s.wizard.EligibleForSelection(r.Context(), event.ID, submittedSelection(r))
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			view := wizardStepTwoView{Event: event, Apps: apps, Statuses: models.EventAppPlatformStatuses}
			s.renderWithErrors(w, r, "wizard_step_two", http.StatusBadRequest, view, validationErr.Fields)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "Apps added to event")
	http.Redirect(w, r, "/admin/events/"+event.ID+"/apps", http.StatusSeeOther)
}
