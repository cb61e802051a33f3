package web

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// FieldErrors maps a form field path to its message. A non-empty map
// means the mutation was not attempted.
type FieldErrors map[string]string

// Has reports whether the field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the field's message, or "".
func (e FieldErrors) Get(field string) string { return e[field] }

// newValidator builds the shared validator. Field names in messages come
// from the form tag so errors line up with input names.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// validateForm runs struct validation and flattens the result into
// per-field messages.
func (s *Server) validateForm(form interface{}) FieldErrors {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": err.Error()}
	}

	fields := FieldErrors{}
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = messageFor(fieldError)
	}
	return fields
}

func messageFor(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fieldError.Param())
	case "oneof":
		return "Invalid value"
	default:
		return "Invalid value"
	}
}

// optional converts an empty form value to a nil pointer so blanks stay
// NULL in the database.
func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// checkbox reports whether a checkbox form value is checked.
func checkbox(value string) bool {
	return value == "on" || value == "true" || value == "1"
}

// parseLinkRows reads the parallel link arrays of the studio and release
// forms, capped at the configured maximum. Rows with an empty URL are
// skipped; rows with an unknown type get a field error.
func (s *Server) parseLinkRows(r *http.Request, fields FieldErrors) []linkRow {
	urls := r.Form["linkUrl"]
	titles := r.Form["linkTitle"]
	types := r.Form["linkType"]

	var rows []linkRow
	for i, rawURL := range urls {
		if i >= s.cfg.MaxLinkCount {
			fields["links"] = fmt.Sprintf("At most %d links allowed", s.cfg.MaxLinkCount)
			break
		}
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			continue
		}

		row := linkRow{URL: rawURL, Title: "Link", Type: models.UrlTypeOther}
		if i < len(titles) && strings.TrimSpace(titles[i]) != "" {
			row.Title = strings.TrimSpace(titles[i])
		}
		if i < len(types) && types[i] != "" {
			if !models.ValidUrlType(types[i]) {
				fields[fmt.Sprintf("links[%d].type", i)] = "Invalid link type"
				continue
			}
			row.Type = types[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// linkRow is one parsed link form row, shared by the studio and release
// link forms.
type linkRow struct {
	URL   string
	Title string
	Type  string
}

func (l linkRow) studioLink(studioID string) models.StudioLink {
	return models.StudioLink{StudioID: studioID, URL: l.URL, Title: l.Title, Type: l.Type}
}

func (l linkRow) releaseLink(appPlatformID string) models.AppPlatformLink {
	return models.AppPlatformLink{AppPlatformID: appPlatformID, URL: l.URL, Title: l.Title, Type: l.Type}
}
