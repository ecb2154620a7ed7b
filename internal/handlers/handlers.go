package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ccrecon/internal/filestore"
	"ccrecon/internal/logger"
	"ccrecon/internal/pipeline"
	"ccrecon/internal/report"
	"ccrecon/internal/version"
)

type Handler struct {
	files *filestore.Store
}

func New(files *filestore.Store) *Handler {
	return &Handler{files: files}
}

// Reconcile accepts the uploaded card exports plus the optional parts
// report, runs the pipeline, stores the generated workbook and streams
// it back as an attachment. The stored copy can be fetched again via
// GET /reports/{id} using the X-Report-ID response header.
//
// Form fields: card1, card2 (files), card1_last4, card2_last4, and an
// optional parts file.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	l := logger.FromContext(r.Context())

	// Parse multipart form (max 20MB)
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		l.Error("reconcile_form_parse_error", "error", err.Error())
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	var in pipeline.Inputs
	for _, field := range []string{"card1", "card2"} {
		file, header, err := r.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			l.Error("reconcile_file_error", "field", field, "error", err.Error())
			http.Error(w, "Failed to read uploaded file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		last4 := r.FormValue(field + "_last4")
		if last4 == "" {
			http.Error(w, fmt.Sprintf("%s_last4 is required", field), http.StatusBadRequest)
			return
		}
		l.Info("reconcile_upload", "field", field, "last4", last4, "filename", header.Filename, "size", header.Size)
		in.Cards = append(in.Cards, pipeline.CardFile{AccountID: last4, Data: file})
	}
	if len(in.Cards) == 0 {
		http.Error(w, "At least one card file is required", http.StatusBadRequest)
		return
	}

	if parts, _, err := r.FormFile("parts"); err == nil {
		defer parts.Close()
		in.Parts = parts
	}

	res, err := pipeline.Run(r.Context(), in)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoUsableInput) {
			h.layoutFailure(w, res)
			return
		}
		l.Error("reconcile_pipeline_error", "error", err.Error())
		http.Error(w, "Reconciliation failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, res.Bundle); err != nil {
		l.Error("reconcile_workbook_error", "error", err.Error())
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}

	id, err := h.files.Save(bytes.NewReader(buf.Bytes()))
	if err != nil {
		l.Error("reconcile_store_error", "error", err.Error())
		http.Error(w, "Failed to store report", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("CreditCard_Reconciliation_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", report.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Report-ID", id)
	w.Write(buf.Bytes())
}

// layoutFailure reports which files were rejected and why, per file,
// when no file survived layout detection.
func (h *Handler) layoutFailure(w http.ResponseWriter, res *pipeline.Result) {
	type fileError struct {
		Account string `json:"account"`
		Error   string `json:"error"`
	}
	var out struct {
		Error string      `json:"error"`
		Files []fileError `json:"files"`
	}
	out.Error = "no card file could be processed"
	if res != nil {
		for _, f := range res.Files {
			if f.Err != nil {
				out.Files = append(out.Files, fileError{Account: f.AccountID, Error: f.Err.Error()})
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(out)
}

// Report re-serves a previously generated workbook by ID.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	l := logger.FromContext(r.Context())

	id := r.PathValue("id")
	f, err := h.files.Get(id)
	if err != nil {
		l.Warn("report_not_found", "id", id, "error", err.Error())
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", report.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".xlsx"))
	io.Copy(w, f)
}

// APIVersion returns build information as JSON.
func (h *Handler) APIVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version":    version.Version,
		"build_time": version.BuildTime,
		"git_commit": version.GitCommit,
	})
}
