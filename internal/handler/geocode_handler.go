package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HebleV/putmeonmap/internal/geocode"
)

type GeocodeHandler struct {
	geocoder geocode.Geocoder
	logger   *zap.Logger
}

func NewGeocodeHandler(g geocode.Geocoder, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{geocoder: g, logger: logger}
}

// Search handles GET /geocode?q=.
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	place, err := h.geocoder.Search(r.Context(), q)
	if err != nil {
		h.fail(w, "geocoding error", err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// Reverse handles GET /reverse-geocode?lat=&lng=.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(w, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}
	place, err := h.geocoder.Reverse(r.Context(), lat, lng)
	if err != nil {
		h.fail(w, "reverse geocoding error", err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (h *GeocodeHandler) fail(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, geocode.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Location not found")
		return
	}
	h.logger.Error(msg, zap.Error(err))
	writeErrorDetails(w, http.StatusBadGateway, "Failed to locate address", err.Error())
}
