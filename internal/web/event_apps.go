package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/eventapps"
	"github.com/pixelfest/eventdeck-go/internal/services/steamsale"
)

// eventAppsView is the aggregated participation screen: the filtered
// table, the filter option lists, the per-app addable releases and the
// Steam sale export derived from the filtered view.
type eventAppsView struct {
	Event       *models.Event
	Apps        []eventapps.AppData
	Platforms   []models.Platform
	Additional  map[string][]eventapps.EligibleRelease
	Export      steamsale.Export
	Filter      eventapps.Filter
	FilterQuery string

	// Filter options. AllStudios also feeds the studio contact list;
	// FindByIDs preloads each main contact's user for it.
	AllPlatforms []models.Platform
	AllStudios   []models.Studio
	Statuses     []string
	AppTypes     []string

	// Comma-joined main contact emails for a combined mailto link.
	StudioEmails string
}

func (s *Server) buildEventAppsView(r *http.Request, event *models.Event, filter eventapps.Filter) (*eventAppsView, error) {
	ctx := r.Context()

	aggregation, err := s.eventApps.Aggregate(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	additional, err := s.eventApps.AdditionalPlatforms(ctx, aggregation)
	if err != nil {
		return nil, err
	}

	studioIDs := make([]string, 0, len(aggregation.Apps))
	seenStudio := map[string]bool{}
	for _, app := range aggregation.Apps {
		if !seenStudio[app.StudioID] {
			seenStudio[app.StudioID] = true
			studioIDs = append(studioIDs, app.StudioID)
		}
	}
	studios, err := s.studios.FindByIDs(ctx, studioIDs)
	if err != nil {
		return nil, err
	}

	var contactEmails []string
	seenEmail := map[string]bool{}
	for _, studio := range studios {
		if studio.MainContact == nil || studio.MainContact.User == nil {
			continue
		}
		email := studio.MainContact.User.Email
		if email != "" && !seenEmail[email] {
			seenEmail[email] = true
			contactEmails = append(contactEmails, email)
		}
	}

	filtered := filter.Apply(aggregation)

	return &eventAppsView{
		Event:        event,
		Apps:         filtered.Apps,
		Platforms:    filtered.Platforms,
		Additional:   additional,
		Export:       steamsale.Generate(filtered.Apps),
		Filter:       filter,
		FilterQuery:  filter.Query().Encode(),
		AllPlatforms: aggregation.Platforms,
		AllStudios:   studios,
		Statuses:     models.EventAppPlatformStatuses,
		AppTypes:     models.AppTypes,
		StudioEmails: strings.Join(contactEmails, ","),
	}, nil
}

func (s *Server) handleEventApps(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	filter := eventapps.ParseFilterQuery(r.URL.Query())
	view, err := s.buildEventAppsView(r, event, filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "event_apps", http.StatusOK, view)
}

// The participation form posts one of three intents. Each parses into
// its own struct so handlers never see half-filled fields of another
// intent.
type eventAppsIntent interface{ eventAppsIntent() }

// addPlatformIntent adds one eligible release to the event.
type addPlatformIntent struct {
	AppPlatformID string
	Status        string
	Comment       string
}

// savePlatformIntent updates one participation record's status and
// comment.
type savePlatformIntent struct {
	EventAppPlatformID string
	Status             string
	Comment            string
}

// deletePlatformIntent removes one participation record.
type deletePlatformIntent struct {
	EventAppPlatformID string
}

func (addPlatformIntent) eventAppsIntent()    {}
func (savePlatformIntent) eventAppsIntent()   {}
func (deletePlatformIntent) eventAppsIntent() {}

func parseEventAppsIntent(r *http.Request) (eventAppsIntent, error) {
	switch intent := r.FormValue("intent"); intent {
	case "add-platform":
		return addPlatformIntent{
			AppPlatformID: r.FormValue("appPlatformId"),
			Status:        r.FormValue("status"),
			Comment:       r.FormValue("comment"),
		}, nil
	case "save-platform":
		return savePlatformIntent{
			EventAppPlatformID: r.FormValue("eventAppPlatformId"),
			Status:             r.FormValue("status"),
			Comment:            r.FormValue("comment"),
		}, nil
	case "delete-platform":
		return deletePlatformIntent{
			EventAppPlatformID: r.FormValue("eventAppPlatformId"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown intent %q", intent)
	}
}

func (s *Server) handleEventAppsPost(w http.ResponseWriter, r *http.Request) {
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

	intent, err := parseEventAppsIntent(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	switch intent := intent.(type) {
	case addPlatformIntent:
		if !models.ValidStatus(intent.Status) {
			s.renderEventAppsError(w, r, event, FieldErrors{"status": "Invalid status"})
			return
		}
		appPlatform, err := s.apps.FindAppPlatformByID(r.Context(), intent.AppPlatformID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if appPlatform == nil {
			s.notFound(w, r)
			return
		}
		record := models.EventAppPlatform{
			EventID:       event.ID,
			AppPlatformID: appPlatform.ID,
			Status:        intent.Status,
			Comment:       optional(intent.Comment),
		}
		if err := s.events.AddAppPlatform(r.Context(), &record); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Release added to event")

	case savePlatformIntent:
		if !models.ValidStatus(intent.Status) {
			s.renderEventAppsError(w, r, event, FieldErrors{"status": "Invalid status"})
			return
		}
		record, err := s.events.FindEventAppPlatformByID(r.Context(), intent.EventAppPlatformID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if record == nil || record.EventID != event.ID {
			s.notFound(w, r)
			return
		}
		if err := s.events.UpdateAppPlatformStatus(r.Context(), record.ID, intent.Status, optional(intent.Comment)); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Participation saved")

	case deletePlatformIntent:
		record, err := s.events.FindEventAppPlatformByID(r.Context(), intent.EventAppPlatformID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if record == nil || record.EventID != event.ID {
			s.notFound(w, r)
			return
		}
		if err := s.events.RemoveAppPlatform(r.Context(), record.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Participation removed")
	}

	http.Redirect(w, r, "/admin/events/"+event.ID+"/apps", http.StatusSeeOther)
}

func (s *Server) renderEventAppsError(w http.ResponseWriter, r *http.Request, event *models.Event, fields FieldErrors) {
	view, err := s.buildEventAppsView(r, event, eventapps.Filter{})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.renderWithErrors(w, r, "event_apps", http.StatusBadRequest, view, fields)
}

type eventPlatformDetailView struct {
	Event    *models.Event
	Platform *models.Platform
	Apps     []eventapps.AppData
}

// handleEventPlatformDetail shows the event's participation narrowed to
// one platform.
func (s *Server) handleEventPlatformDetail(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
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

	aggregation, err := s.eventApps.Aggregate(r.Context(), event.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	filtered := eventapps.Filter{Platforms: []string{platform.ID}}.Apply(aggregation)

	s.render(w, r, "event_platform_detail", http.StatusOK, eventPlatformDetailView{
		Event:    event,
		Platform: platform,
		Apps:     filtered.Apps,
	})
}
