package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/jobtrack/auth"
	"github.com/diewo77/jobtrack/httpx"
	"github.com/diewo77/jobtrack/internal/board"
	"github.com/diewo77/jobtrack/internal/models"
	"github.com/diewo77/jobtrack/internal/services"
	"go.uber.org/zap"
)

type PostingHandler struct {
	pipeline *services.PipelineService
	logger   *zap.Logger
}

func NewPostingHandler(pipeline *services.PipelineService, logger *zap.Logger) *PostingHandler {
	return &PostingHandler{pipeline: pipeline, logger: logger}
}

// List returns the full ordered posting snapshot for the resolved user.
// ?view=board groups the snapshot into per-stage columns.
func (h *PostingHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	postings, err := h.pipeline.List(uid)
	if err != nil {
		h.logger.Error("list postings failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_postings", nil)
		return
	}
	if r.URL.Query().Get("view") == "board" {
		httpx.JSON(w, http.StatusOK, map[string]any{"columns": board.Partition(postings), "total": len(postings)})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": postings, "total": len(postings)})
}

func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreatePostingInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Title       string `json:"title"`
			Company     string `json:"company"`
			Stage       string `json:"stage"`
			Notes       string `json:"notes"`
			CompanyLink string `json:"companyLink"`
			VacancyLink string `json:"vacancyLink"`
			Salary      string `json:"salary"`
			Location    string `json:"location"`
			Contact     string `json:"contact"`
			NextStep    string `json:"nextStep"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		in = services.CreatePostingInput{
			Title: body.Title, Company: body.Company, Stage: body.Stage,
			Notes: body.Notes, CompanyLink: body.CompanyLink, VacancyLink: body.VacancyLink,
			Salary: body.Salary, Location: body.Location, Contact: body.Contact, NextStep: body.NextStep,
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		in = services.CreatePostingInput{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Company:     strings.TrimSpace(r.FormValue("company")),
			Stage:       r.FormValue("stage"),
			Notes:       strings.TrimSpace(r.FormValue("notes")),
			CompanyLink: strings.TrimSpace(r.FormValue("companyLink")),
			VacancyLink: strings.TrimSpace(r.FormValue("vacancyLink")),
			Salary:      strings.TrimSpace(r.FormValue("salary")),
			Location:    strings.TrimSpace(r.FormValue("location")),
			Contact:     strings.TrimSpace(r.FormValue("contact")),
			NextStep:    strings.TrimSpace(r.FormValue("nextStep")),
		}
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	posting, err := h.pipeline.Create(uid, in)
	if ve, ok := services.AsValidationError(err); ok {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
		return
	}
	if err != nil {
		h.logger.Error("create posting failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "posting_create_failed", nil)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusCreated, posting)
}

// Update applies a partial edit: only supplied fields change, a supplied
// empty value clears an optional field, and an absent field is a no-op.
func (h *PostingHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.readPatch(w, r)
	if !ok {
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	err := h.pipeline.Patch(uid, r.PathValue("id"), patch)
	if ve, okVE := services.AsValidationError(err); okVE {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		httpx.Failure(w, http.StatusNotFound, "Vacancy not found")
		return
	}
	if err != nil {
		h.logger.Error("patch posting failed", zap.Error(err))
		httpx.Failure(w, http.StatusInternalServerError, "Failed to update vacancy")
		return
	}
	httpx.Success(w, http.StatusOK, "Vacancy updated")
}

// UpdateStage is the stage-only mutation behind board moves and the advance
// affordance.
func (h *PostingHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	stage, ok := models.ParseStage(r.FormValue("stage"))
	if !ok {
		httpx.Failure(w, http.StatusBadRequest, "Unknown stage")
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	err := h.pipeline.Patch(uid, r.PathValue("id"), services.PostingPatch{Stage: &stage})
	if errors.Is(err, services.ErrNotFound) {
		httpx.Failure(w, http.StatusNotFound, "Vacancy not found")
		return
	}
	if err != nil {
		h.logger.Error("stage patch failed", zap.Error(err))
		httpx.Failure(w, http.StatusInternalServerError, "Failed to update vacancy")
		return
	}
	httpx.Success(w, http.StatusOK, "Vacancy moved to "+stage.Label())
}

func (h *PostingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	err := h.pipeline.Remove(uid, r.PathValue("id"))
	if errors.Is(err, services.ErrNotFound) {
		httpx.Failure(w, http.StatusNotFound, "Vacancy not found")
		return
	}
	if err != nil {
		h.logger.Error("remove posting failed", zap.Error(err))
		httpx.Failure(w, http.StatusInternalServerError, "Failed to delete vacancy")
		return
	}
	httpx.Success(w, http.StatusOK, "Vacancy deleted")
}

// readPatch decodes a PostingPatch from JSON (nil pointer = absent) or a form
// (missing key = absent, empty value = clear; empty title/company and
// unrecognized stages are treated as absent, matching the edit form).
func (h *PostingHandler) readPatch(w http.ResponseWriter, r *http.Request) (services.PostingPatch, bool) {
	var patch services.PostingPatch

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Title       *string `json:"title"`
			Company     *string `json:"company"`
			Stage       *string `json:"stage"`
			Notes       *string `json:"notes"`
			CompanyLink *string `json:"companyLink"`
			VacancyLink *string `json:"vacancyLink"`
			Salary      *string `json:"salary"`
			Location    *string `json:"location"`
			Contact     *string `json:"contact"`
			NextStep    *string `json:"nextStep"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return patch, false
		}
		patch = services.PostingPatch{
			Title: body.Title, Company: body.Company,
			Notes: body.Notes, CompanyLink: body.CompanyLink, VacancyLink: body.VacancyLink,
			Salary: body.Salary, Location: body.Location, Contact: body.Contact, NextStep: body.NextStep,
		}
		if body.Stage != nil {
			if stage, ok := models.ParseStage(*body.Stage); ok {
				patch.Stage = &stage
			}
		}
		return patch, true
	}

	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return patch, false
	}
	if v := strings.TrimSpace(r.FormValue("title")); v != "" {
		patch.Title = &v
	}
	if v := strings.TrimSpace(r.FormValue("company")); v != "" {
		patch.Company = &v
	}
	if stage, ok := models.ParseStage(r.FormValue("stage")); ok {
		patch.Stage = &stage
	}
	optional := map[string]**string{
		"notes":       &patch.Notes,
		"companyLink": &patch.CompanyLink,
		"vacancyLink": &patch.VacancyLink,
		"salary":      &patch.Salary,
		"location":    &patch.Location,
		"contact":     &patch.Contact,
		"nextStep":    &patch.NextStep,
	}
	for field, dst := range optional {
		if !r.Form.Has(field) {
			continue
		}
		v := strings.TrimSpace(r.FormValue(field))
		*dst = &v
	}
	return patch, true
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || accept == ""
}
