package web

import (
	"net/http"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.notFound(w, r)
		return
	}
	s.render(w, r, "home", http.StatusOK, nil)
}

// loginForm is the login submission.
type loginForm struct {
	Email      string `form:"email" validate:"required,email"`
	Password   string `form:"password" validate:"required"`
	RedirectTo string `form:"redirectTo"`
}

type loginView struct {
	Email      string
	RedirectTo string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login", http.StatusOK, loginView{
		RedirectTo: r.URL.Query().Get("redirectTo"),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := loginForm{
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		RedirectTo: r.FormValue("redirectTo"),
	}
	view := loginView{Email: form.Email, RedirectTo: form.RedirectTo}

	if fields := s.validateForm(form); fields != nil {
		s.renderWithErrors(w, r, "login", http.StatusBadRequest, view, fields)
		return
	}

	user, err := s.users.VerifyLogin(r.Context(), form.Email, form.Password)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if user == nil {
		s.renderWithErrors(w, r, "login", http.StatusBadRequest, view, FieldErrors{
			"email": "Invalid email or password",
		})
		return
	}

	if err := s.sessions.SignIn(w, r, user.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, safeRedirect(form.RedirectTo, "/admin"), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(w, r); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type dashboardView struct {
	UserCount     int64
	StudioCount   int64
	PlatformCount int64
	AppCount      int64
	AppsByType    map[string]int64
	EventCount    int64
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var view dashboardView
	var err error

	if view.UserCount, err = s.users.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if view.StudioCount, err = s.studios.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if view.PlatformCount, err = s.platforms.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if view.AppCount, err = s.apps.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if view.AppsByType, err = s.apps.CountByType(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if view.EventCount, err = s.events.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "dashboard", http.StatusOK, view)
}
