package web

import (
	"net/http"
	"time"

	"github.com/pixelfest/eventdeck-go/internal/services/transfer"
)

// handleExport streams the whole catalog as a JSON download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exported, _, err := s.exporter.Export(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	payload, err := exported.ToJSON()
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	filename := "eventdeck-export-" + time.Now().UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(payload))
}

type importForm struct {
	Data             string `form:"data" validate:"required"`
	ConflictStrategy string `form:"conflictStrategy"`
}

type importResult struct {
	Stats    *transfer.ImportStats
	Warnings []string
}

type importView struct {
	Form       importForm
	Strategies []string
	Result     *importResult
}

func (s *Server) importView(form importForm) importView {
	return importView{
		Form:       form,
		Strategies: []string{string(transfer.ConflictSkip), string(transfer.ConflictRename)},
	}
}

func (s *Server) handleImportForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "import", http.StatusOK, s.importView(importForm{ConflictStrategy: string(transfer.ConflictSkip)}))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	form := importForm{
		Data:             r.FormValue("data"),
		ConflictStrategy: r.FormValue("conflictStrategy"),
	}
	fields := s.validateForm(form)
	if fields == nil {
		fields = FieldErrors{}
	}
	if form.ConflictStrategy == "" {
		form.ConflictStrategy = string(transfer.ConflictSkip)
	}
	if !transfer.ValidConflictStrategy(form.ConflictStrategy) {
		fields["conflictStrategy"] = "Invalid strategy"
	}
	if len(fields) > 0 {
		s.renderWithErrors(w, r, "import", http.StatusBadRequest, s.importView(form), fields)
		return
	}

	stats, warnings, err := s.importer.Import(r.Context(), form.Data, transfer.ImportOptions{
		ConflictStrategy: transfer.ConflictStrategy(form.ConflictStrategy),
	})
	if err != nil {
		s.renderWithErrors(w, r, "import", http.StatusBadRequest, s.importView(form), FieldErrors{
			"data": "Not a valid eventdeck export file",
		})
		return
	}

	view := s.importView(importForm{ConflictStrategy: form.ConflictStrategy})
	view.Result = &importResult{Stats: stats, Warnings: warnings}
	s.render(w, r, "import", http.StatusOK, view)
}
