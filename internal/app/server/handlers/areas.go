package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"snapland/internal/core/domain"
	"snapland/internal/core/geo"
	"snapland/internal/core/services"
	"snapland/pkg/middleware"

	"github.com/google/uuid"
)

type AreasHandler struct {
	areaSvc *services.AreaService
}

func NewAreasHandler(a *services.AreaService) *AreasHandler {
	return &AreasHandler{areaSvc: a}
}

type areaResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Coordinates [][]float64 `json:"coordinates"`
	AreaKm2     float64     `json:"areaKm2"`
	CreatedBy   uuid.UUID   `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type versionResponse struct {
	ID            uuid.UUID   `json:"id"`
	AreaID        uuid.UUID   `json:"areaId"`
	VersionNumber int         `json:"versionNumber"`
	Name          string      `json:"name"`
	Coordinates   [][]float64 `json:"coordinates"`
	EditedBy      uuid.UUID   `json:"editedBy"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func toAreaResponse(a domain.Area) areaResponse {
	return areaResponse{
		ID:          a.ID,
		Name:        a.Name,
		Coordinates: geo.Coordinates(a.Polygon),
		AreaKm2:     a.AreaKm2,
		CreatedBy:   a.CreatedByUserID,
		CreatedAt:   a.CreatedAt,
	}
}

func toVersionResponse(v domain.AreaVersion) versionResponse {
	return versionResponse{
		ID:            v.ID,
		AreaID:        v.AreaID,
		VersionNumber: v.VersionNumber,
		Name:          v.Name,
		Coordinates:   geo.Coordinates(v.Polygon),
		EditedBy:      v.EditedByUserID,
		CreatedAt:     v.CreatedAt,
	}
}

func (h *AreasHandler) Create(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		Name        string      `json:"name"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	area, err := h.areaSvc.CreateArea(r.Context(), userID, req.Name, req.Coordinates)
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.ErrorContext(r.Context(), "areas handler - create failed", "user_id", userID.String())
		http.Error(w, "create area failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toAreaResponse(*area))
}

// List returns areas intersecting the viewport passed as
// ?minLng=&minLat=&maxLng=&maxLat= query parameters.
func (h *AreasHandler) List(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	bounds, err := parseBounds(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	areas, err := h.areaSvc.ListAreas(r.Context(), bounds)
	if err != nil {
		log.ErrorContext(r.Context(), "areas handler - list failed")
		http.Error(w, "list areas failed", http.StatusInternalServerError)
		return
	}
	out := make([]areaResponse, 0, len(areas))
	for _, a := range areas {
		out = append(out, toAreaResponse(a))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *AreasHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	areaID, err := uuid.Parse(r.PathValue("areaID"))
	if err != nil {
		http.Error(w, "invalid area id", http.StatusBadRequest)
		return
	}
	var req struct {
		Name        string      `json:"name"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	version, err := h.areaSvc.CreateVersion(r.Context(), userID, areaID, req.Name, req.Coordinates)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAreaNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case isValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.ErrorContext(r.Context(), "areas handler - create version failed", "area_id", areaID.String())
			http.Error(w, "create version failed", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toVersionResponse(*version))
}

func (h *AreasHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	areaID, err := uuid.Parse(r.PathValue("areaID"))
	if err != nil {
		http.Error(w, "invalid area id", http.StatusBadRequest)
		return
	}
	versions, err := h.areaSvc.ListVersions(r.Context(), areaID)
	if err != nil {
		if errors.Is(err, domain.ErrAreaNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.ErrorContext(r.Context(), "areas handler - list versions failed", "area_id", areaID.String())
		http.Error(w, "list versions failed", http.StatusInternalServerError)
		return
	}
	out := make([]versionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, toVersionResponse(v))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidAreaName) ||
		errors.Is(err, geo.ErrInsufficientPoints) ||
		errors.Is(err, geo.ErrMalformedCoordinate) ||
		errors.Is(err, geo.ErrInvalidGeometry)
}

func parseBounds(r *http.Request) (domain.BoundingBox, error) {
	var b domain.BoundingBox
	var err error
	parse := func(name string) (float64, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return 0, errors.New("missing query parameter: " + name)
		}
		return strconv.ParseFloat(raw, 64)
	}
	if b.MinLng, err = parse("minLng"); err != nil {
		return b, err
	}
	if b.MinLat, err = parse("minLat"); err != nil {
		return b, err
	}
	if b.MaxLng, err = parse("maxLng"); err != nil {
		return b, err
	}
	if b.MaxLat, err = parse("maxLat"); err != nil {
		return b, err
	}
	return b, nil
}
