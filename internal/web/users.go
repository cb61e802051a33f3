package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

type userNewForm struct {
	Name     string `form:"name" validate:"required,max=190"`
	Email    string `form:"email" validate:"required,email"`
	Role     string `form:"role" validate:"required"`
	Password string `form:"password" validate:"required,min=8"`
}

type userEditForm struct {
	Name  string `form:"name" validate:"required,max=190"`
	Email string `form:"email" validate:"required,email"`
	Role  string `form:"role" validate:"required"`
	// Password is optional on edit; blank keeps the current one.
	Password string `form:"password" validate:"omitempty,min=8"`
}

type userIndexView struct {
	Users []models.User
}

func (s *Server) handleUserIndex(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.FindAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "users_index", http.StatusOK, userIndexView{Users: users})
}

type userFormView struct {
	User *models.User
	Form userEditForm
	// Roles is empty when the editor may not change the role.
	Roles []string
}

func (s *Server) handleUserNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "users_new", http.StatusOK, userFormView{
		Form:  userEditForm{Role: models.UserRoleUser},
		Roles: models.UserRoles,
	})
}

func (s *Server) handleUserNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := userNewForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Role:     r.FormValue("role"),
		Password: r.FormValue("password"),
	}
	fields := s.validateForm(form)
	if fields == nil {
		fields = FieldErrors{}
	}
	if form.Role != "" && !models.ValidRole(form.Role) {
		fields["role"] = "Invalid role"
	}
	if !fields.Has("email") {
		existing, err := s.users.FindByEmail(r.Context(), form.Email)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if existing != nil {
			fields["email"] = "A user already exists with this email"
		}
	}

	if len(fields) > 0 {
		view := userFormView{
			Form:  userEditForm{Name: form.Name, Email: form.Email, Role: form.Role},
			Roles: models.UserRoles,
		}
		s.renderWithErrors(w, r, "users_new", http.StatusBadRequest, view, fields)
		return
	}

	user := models.User{Name: form.Name, Email: form.Email, Role: form.Role}
	if err := s.users.Create(r.Context(), &user, form.Password); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.sessions.Flash(w, r, "User created")
	http.Redirect(w, r, "/admin/users/"+user.ID, http.StatusSeeOther)
}

// canView reports whether the current user may see the target user's
// screens: admins see everyone, others only themselves.
func canView(current *models.User, targetID string) bool {
	return current.IsAdmin() || (current != nil && current.ID == targetID)
}

type userShowView struct {
	User *models.User
}

func (s *Server) handleUserShow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !canView(CurrentUser(r.Context()), userID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
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
	s.render(w, r, "users_show", http.StatusOK, userShowView{User: user})
}

func (s *Server) handleUserEditForm(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	current := CurrentUser(r.Context())
	if !canView(current, userID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
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

	view := userFormView{
		User: user,
		Form: userEditForm{Name: user.Name, Email: user.Email, Role: user.Role},
	}
	if current.IsAdmin() {
		view.Roles = models.UserRoles
	}
	s.render(w, r, "users_edit", http.StatusOK, view)
}

// handleUserEdit serves the dual-purpose edit form. Admins may edit
// anyone and remove users; a non-admin may only save their own record
// and cannot change their role.
func (s *Server) handleUserEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	userID := chi.URLParam(r, "userID")
	current := CurrentUser(r.Context())
	if !canView(current, userID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
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

	switch r.FormValue("intent") {
	case "remove":
		if !current.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if err := s.users.Delete(r.Context(), user.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "User removed")
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)

	case "save":
		form := userEditForm{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Role:     r.FormValue("role"),
			Password: r.FormValue("password"),
		}
		if !current.IsAdmin() {
			// Role changes are admin-only; keep the stored role.
			form.Role = user.Role
		}
		fields := s.validateForm(form)
		if fields == nil {
			fields = FieldErrors{}
		}
		if form.Role != "" && !models.ValidRole(form.Role) {
			fields["role"] = "Invalid role"
		}
		if form.Email != user.Email && !fields.Has("email") {
			existing, err := s.users.FindByEmail(r.Context(), form.Email)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			if existing != nil {
				fields["email"] = "A user already exists with this email"
			}
		}

		if len(fields) > 0 {
			view := userFormView{User: user, Form: form}
			if current.IsAdmin() {
				view.Roles = models.UserRoles
			}
			s.renderWithErrors(w, r, "users_edit", http.StatusBadRequest, view, fields)
			return
		}

		user.Name = form.Name
		user.Email = form.Email
		user.Role = form.Role
		if err := s.users.Update(r.Context(), user, form.Password); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.Flash(w, r, "User saved")
		http.Redirect(w, r, "/admin/users/"+user.ID, http.StatusSeeOther)

	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}
