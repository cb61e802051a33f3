package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

const dateLayout = "2006-01-02"

type eventForm struct {
	Name        string `form:"name" validate:"required,max=190"`
	RunningFrom string `form:"runningFrom" validate:"required"`
	RunningTo   string `form:"runningTo" validate:"required"`
	Visibility  string `form:"visibility" validate:"required"`
}

// parseEventForm validates the form including the cross-field rule that
// the event cannot end before it starts.
func (s *Server) parseEventForm(r *http.Request) (eventForm, time.Time, time.Time, FieldErrors) {
	form := eventForm{
		Name:        r.FormValue("name"),
		RunningFrom: r.FormValue("runningFrom"),
		RunningTo:   r.FormValue("runningTo"),
		Visibility:  r.FormValue("visibility"),
	}
	fields := s.validateForm(form)
	if fields == nil {
		fields = FieldErrors{}
	}
	if form.Visibility != "" && !models.ValidVisibility(form.Visibility) {
		fields["visibility"] = "Invalid visibility"
	}

	var runningFrom, runningTo time.Time
	var err error
	if form.RunningFrom != "" {
		if runningFrom, err = time.Parse(dateLayout, form.RunningFrom); err != nil {
			fields["runningFrom"] = "Invalid date"
		}
	}
	if form.RunningTo != "" {
		if runningTo, err = time.Parse(dateLayout, form.RunningTo); err != nil {
			fields["runningTo"] = "Invalid date"
		}
	}
	if !fields.Has("runningFrom") && !fields.Has("runningTo") &&
		!runningFrom.IsZero() && !runningTo.IsZero() && runningTo.Before(runningFrom) {
		fields["runningTo"] = "End date must not be before start date"
	}

	return form, runningFrom, runningTo, fields
}

type eventIndexView struct {
	Events []models.Event
}

func (s *Server) handleEventIndex(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.FindAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "events_index", http.StatusOK, eventIndexView{Events: events})
}

type eventFormView struct {
	Event        *models.Event
	Form         eventForm
	Visibilities []string
}

func (s *Server) handleEventNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "events_new", http.StatusOK, eventFormView{
		Form:         eventForm{Visibility: models.EventVisibilityPrivate},
		Visibilities: models.EventVisibilities,
	})
}

func (s *Server) handleEventNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form, runningFrom, runningTo, fields := s.parseEventForm(r)
	if len(fields) > 0 {
		view := eventFormView{Form: form, Visibilities: models.EventVisibilities}
		s.renderWithErrors(w, r, "events_new", http.StatusBadRequest, view, fields)
		return
	}

	event := models.Event{
		Name:        form.Name,
		RunningFrom: runningFrom,
		RunningTo:   runningTo,
		Visibility:  form.Visibility,
	}
	if err := s.events.Create(r.Context(), &event); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "Event created")
	http.Redirect(w, r, "/admin/events/"+event.ID, http.StatusSeeOther)
}

type eventShowView struct {
	Event *models.Event
}

func (s *Server) handleEventShow(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, r, "events_show", http.StatusOK, eventShowView{Event: event})
}

func (s *Server) handleEventEditForm(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	s.render(w, r, "events_edit", http.StatusOK, eventFormView{
		Event: event,
		Form: eventForm{
			Name:        event.Name,
			RunningFrom: event.RunningFrom.Format(dateLayout),
			RunningTo:   event.RunningTo.Format(dateLayout),
			Visibility:  event.Visibility,
		},
		Visibilities: models.EventVisibilities,
	})
}

func (s *Server) handleEventEdit(w http.ResponseWriter, r *http.Request) {
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

	switch r.FormValue("intent") {
	case "remove":
		if err := s.events.Delete(r.Context(), event.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Event removed")
		http.Redirect(w, r, "/admin/events", http.StatusSeeOther)

	case "save":
		form, runningFrom, runningTo, fields := s.parseEventForm(r)
		if len(fields) > 0 {
			view := eventFormView{Event: event, Form: form, Visibilities: models.EventVisibilities}
			s.renderWithErrors(w, r, "events_edit", http.StatusBadRequest, view, fields)
			return
		}

		event.Name = form.Name
		event.RunningFrom = runningFrom
		event.RunningTo = runningTo
		event.Visibility = form.Visibility
		if err := s.events.Update(r.Context(), event); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Event saved")
		http.Redirect(w, r, "/admin/events/"+event.ID, http.StatusSeeOther)

	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}

type eventCoordinatorsView struct {
	Event         *models.Event
	EligibleUsers []models.User
}

func (s *Server) handleEventCoordinators(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.FindByID(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if event == nil {
		s.notFound(w, r)
		return
	}

	eligibleUsers, err := s.users.FindNotCoordinatingEvent(r.Context(), event.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "events_coordinators", http.StatusOK, eventCoordinatorsView{
		Event:         event,
		EligibleUsers: eligibleUsers,
	})
}

// handleEventCoordinatorsPost adds or removes a coordinator depending on
// the intent.
func (s *Server) handleEventCoordinatorsPost(w http.ResponseWriter, r *http.Request) {
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

	switch r.FormValue("intent") {
	case "add":
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
		if err := s.events.AddCoordinator(r.Context(), event.ID, userID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Coordinator added")

	case "remove":
		coordinatorID := r.FormValue("coordinatorId")
		if coordinatorID == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err := s.events.RemoveCoordinator(r.Context(), coordinatorID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "Coordinator removed")

	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/admin/events/"+event.ID+"/coordinators", http.StatusSeeOther)
}
