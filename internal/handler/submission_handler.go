package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/HebleV/putmeonmap/internal/models"
	"github.com/HebleV/putmeonmap/internal/repository"
	"github.com/HebleV/putmeonmap/internal/service"
)

type SubmissionHandler struct {
	svc    *service.SubmissionService
	logger *zap.Logger
}

func NewSubmissionHandler(svc *service.SubmissionService, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, logger: logger}
}

// Submit handles POST /submit-to-google.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmissionRequest
	// An empty body is treated like a form with every field missing.
	if err := readJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.logger.Info("received submission request",
		zap.String("name", req.Name),
		zap.String("address", req.Address),
		zap.String("lat", string(req.Lat)),
		zap.String("lng", string(req.Lng)),
		zap.String("category", req.Category))

	resp, err := h.svc.Submit(r.Context(), &req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Msg)
			return
		}
		h.logger.Error("submission failed", zap.Error(err))
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to submit location to Google Maps", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /submissions.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("error reading submissions file", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read submissions")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Get handles GET /submissions/{id}.
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	sub, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("error reading submission", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read submission")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
