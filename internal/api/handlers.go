package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rosales/inkwell/internal/auth"
	"github.com/rosales/inkwell/internal/models"
	"github.com/rosales/inkwell/internal/noteservice"
	"github.com/rosales/inkwell/internal/summarize"
)

// maxFormMemory bounds how much of a multipart body stays in memory before
// spooling to temp files.
const maxFormMemory = 4 << 20

// Handler holds API route handlers.
type Handler struct {
	svc        *noteservice.Service
	summarizer *summarize.Service
	maxBody    int64
}

// NewHandler creates a new Handler. maxBody caps the whole multipart request
// body (attachments plus text fields).
func NewHandler(svc *noteservice.Service, summarizer *summarize.Service, maxBody int64) *Handler {
	if maxBody <= 0 {
		maxBody = 21 << 20
	}
	return &Handler{svc: svc, summarizer: summarizer, maxBody: maxBody}
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// parseNoteForm reads the multipart body and schedules cleanup of any spooled
// temp files once the request finishes, whether or not the upload succeeded.
func (h *Handler) parseNoteForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart form"))
		return false
	}
	return true
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.List(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeAppError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNote handles POST /notes (multipart/form-data with title,
// description, and optional image, audio, and date fields).
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if !h.parseNoteForm(w, r) {
		return
	}
	defer cleanupForm(r)

	in := noteservice.CreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Date:        noteservice.ParseDate(r.FormValue("date")),
		Form:        r.MultipartForm,
	}
	note, err := h.svc.Create(r.Context(), auth.IdentityFrom(r.Context()), in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Get(r.Context(), auth.IdentityFrom(r.Context()), noteID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /notes/{id} (multipart/form-data; all fields
// optional, new files replace stored attachments).
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	if !h.parseNoteForm(w, r) {
		return
	}
	defer cleanupForm(r)

	in := noteservice.UpdateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Date:        noteservice.ParseDate(r.FormValue("date")),
		Form:        r.MultipartForm,
	}
	note, err := h.svc.Update(r.Context(), auth.IdentityFrom(r.Context()), noteID(r), in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.IdentityFrom(r.Context()), noteID(r)); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "note was deleted"})
}

// Summarize handles POST /summarize. The remote model path never fails the
// request; only missing or non-string input is rejected.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil || *req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required and must be a string"))
		return
	}

	summary, source := h.summarizer.Summarize(r.Context(), *req.Text)
	writeJSON(w, http.StatusOK, SummarizeResponse{Summary: summary, Source: source})
}
