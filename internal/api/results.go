package api

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eqcoach/eqcoach/internal/auth"
	"github.com/eqcoach/eqcoach/internal/submission"
	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// maxBodyBytes bounds a decoded submit body.
const maxBodyBytes = 64 << 10

// incompleteMessage is shown for any incomplete submission without naming
// the missing questions.
const incompleteMessage = "please answer all questions before submitting"

// submitRequest is the JSON body for POST /api/eq/submit. Answers are
// pointers so a null entry reads as unanswered.
type submitRequest struct {
	Answers []*int `json:"answers"`
}

// resultResponse is a stored result on the wire.
type resultResponse struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	assessment.Result
}

func toResponse(rec submission.Record) resultResponse {
	return resultResponse{ID: rec.ID, SubmittedAt: rec.CreatedAt, Result: rec.Result}
}

func cacheKey(userID, resultID string) string {
	return userID + "/" + resultID
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	// Support gzip-compressed request bodies
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body")
			return
		}
		defer gz.Close()
		body = gz
	}

	var req submitRequest
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answers := make([]int, len(req.Answers))
	for i, a := range req.Answers {
		if a == nil {
			writeError(w, http.StatusBadRequest, incompleteMessage)
			return
		}
		answers[i] = *a
	}

	rec, err := h.svc.Submit(r.Context(), userID, answers)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.cache.Put(cacheKey(userID, rec.ID), *rec)
	writeJSON(w, http.StatusOK, toResponse(*rec))
}

func (h *Handler) handleListResults(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	recs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]resultResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (h *Handler) handleLatestResult(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	rec, err := h.svc.Latest(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*rec))
}

func (h *Handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	resultID := chi.URLParam(r, "resultID")
	key := cacheKey(userID, resultID)

	if rec, ok := h.cache.Get(key); ok {
		writeJSON(w, http.StatusOK, toResponse(rec))
		return
	}

	rec, err := h.svc.Get(r.Context(), userID, resultID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.cache.Put(key, *rec)
	writeJSON(w, http.StatusOK, toResponse(*rec))
}

func (h *Handler) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	data, err := h.svc.Export(r.Context(), userID, chi.URLParam(r, "resultID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeServiceError maps service errors to status codes. Internal details
// are logged, never returned.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var ve *assessment.ValidationError
	switch {
	case errors.Is(err, assessment.ErrIncomplete):
		writeError(w, http.StatusBadRequest, incompleteMessage)
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, submission.ErrNotFound):
		writeError(w, http.StatusNotFound, "result not found")
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
