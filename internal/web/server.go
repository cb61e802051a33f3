// Package web is the server-rendered HTML surface: session
// authentication, the admin CRUD screens and the event participation
// tooling. Mutations are form-encoded POSTs answered with a 303 redirect
// on success or a re-rendered form with inline field errors.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pixelfest/eventdeck-go/internal/config"
	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
	"github.com/pixelfest/eventdeck-go/internal/services/eventapps"
	"github.com/pixelfest/eventdeck-go/internal/services/transfer"
	"github.com/pixelfest/eventdeck-go/internal/services/wizard"
)

// Server holds the handler dependencies.
type Server struct {
	cfg      *config.Config
	sessions *SessionManager
	validate *validator.Validate

	users     *repositories.UserRepository
	studios   *repositories.StudioRepository
	platforms *repositories.PlatformRepository
	apps      *repositories.AppRepository
	events    *repositories.EventRepository

	eventApps *eventapps.Service
	wizard    *wizard.Service
	exporter  *transfer.Exporter
	importer  *transfer.Importer
}

// NewServer wires the web surface.
func NewServer(
	cfg *config.Config,
	sessions *SessionManager,
	users *repositories.UserRepository,
	studios *repositories.StudioRepository,
	platforms *repositories.PlatformRepository,
	apps *repositories.AppRepository,
	events *repositories.EventRepository,
) *Server {
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		validate:  newValidator(),
		users:     users,
		studios:   studios,
		platforms: platforms,
		apps:      apps,
		events:    events,
		eventApps: eventapps.NewService(events, apps),
		wizard:    wizard.NewService(events, studios),
		exporter:  transfer.NewExporter(platforms, studios, apps, events),
		importer:  transfer.NewImporter(platforms, studios, apps, events),
	}
}

// Routes builds the route tree. The admin subtree requires a signed-in
// user; user management additionally requires the admin role except for
// the admin-or-self screens, which check inside the handler.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.WithCurrentUser)

	r.Get("/", s.handleHome)
	r.Handle("/static/*", staticHandler())
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.RequireUser)
		r.Get("/", s.handleDashboard)

		r.Route("/studios", func(r chi.Router) {
			r.Get("/", s.handleStudioIndex)
			r.Get("/new", s.handleStudioNewForm)
			r.Post("/new", s.handleStudioNew)
			r.Route("/{studioID}", func(r chi.Router) {
				r.Get("/", s.handleStudioShow)
				r.Get("/edit", s.handleStudioEditForm)
				r.Post("/edit", s.handleStudioEdit)
				r.Post("/members", s.handleStudioAddMember)
			})
		})

		r.Route("/apps", func(r chi.Router) {
			r.Get("/", s.handleAppIndex)
			r.Get("/new", s.handleAppNewForm)
			r.Post("/new", s.handleAppNew)
			r.Route("/{appID}", func(r chi.Router) {
				r.Get("/", s.handleAppShow)
				r.Get("/edit", s.handleAppEditForm)
				r.Post("/edit", s.handleAppEdit)
				r.Get("/new-platform", s.handleAppNewPlatformForm)
				r.Post("/new-platform", s.handleAppNewPlatform)
			})
		})

		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", s.handlePlatformIndex)
			r.Get("/new", s.handlePlatformNewForm)
			r.Post("/new", s.handlePlatformNew)
			r.Route("/{platformID}", func(r chi.Router) {
				r.Get("/", s.handlePlatformShow)
				r.Get("/edit", s.handlePlatformEditForm)
				r.Post("/edit", s.handlePlatformEdit)
			})
		})

		r.With(s.RequireAdmin).Get("/export", s.handleExport)
		r.With(s.RequireAdmin).Get("/import", s.handleImportForm)
		r.With(s.RequireAdmin).Post("/import", s.handleImport)

		r.Route("/users", func(r chi.Router) {
			r.With(s.RequireAdmin).Get("/", s.handleUserIndex)
			r.With(s.RequireAdmin).Get("/new", s.handleUserNewForm)
			r.With(s.RequireAdmin).Post("/new", s.handleUserNew)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", s.handleUserShow)
				r.Get("/edit", s.handleUserEditForm)
				r.Post("/edit", s.handleUserEdit)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleEventIndex)
			r.Get("/new", s.handleEventNewForm)
			r.Post("/new", s.handleEventNew)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", s.handleEventShow)
				r.Get("/edit", s.handleEventEditForm)
				r.Post("/edit", s.handleEventEdit)
				r.Get("/coordinators", s.handleEventCoordinators)
				r.Post("/coordinators", s.handleEventCoordinatorsPost)
				r.Get("/apps", s.handleEventApps)
				r.Post("/apps", s.handleEventAppsPost)
				r.Get("/apps/add-apps", s.handleWizardStepOne)
				r.Post("/apps/add-apps", s.handleWizardStepOnePost)
				r.Get("/apps/add-apps/select-platforms", s.handleWizardStepTwo)
				r.Post("/apps/add-apps/select-platforms", s.handleWizardStepTwoPost)
				r.Get("/platforms/{platformID}", s.handleEventPlatformDetail)
			})
		})
	})

	return r
}

// notFound renders the 404 page.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "not_found", http.StatusNotFound, nil)
}
