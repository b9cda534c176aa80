package recommendations

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/fdg312/bioboard/internal/logging"
	"github.com/fdg312/bioboard/internal/recommender"
	"github.com/fdg312/bioboard/internal/reports"
	"github.com/fdg312/bioboard/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// Handler handles HTTP requests for meal recommendations.
type Handler struct {
	service   *Service
	generator *reports.Generator
}

// NewHandler creates a new recommendations handler.
func NewHandler(service *Service, generator *reports.Generator) *Handler {
	if generator == nil {
		generator = reports.NewGenerator()
	}
	return &Handler{service: service, generator: generator}
}

// HandleRecommend handles POST /v1/meals/recommendations
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRecommendRequest(w, r)
	if !ok {
		return
	}

	result, _, err := h.service.Recommend(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if result.FellBack {
		w.Header().Set("X-Filter-Fallback", "true")
	}
	writeJSON(w, http.StatusOK, result.Meals)
}

// HandleExport handles POST /v1/meals/recommendations/export?format=pdf|csv
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = reports.FormatPDF
	}
	contentType := reports.ContentType(format)
	if contentType == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "format must be one of: pdf, csv")
		return
	}

	req, ok := decodeRecommendRequest(w, r)
	if !ok {
		return
	}

	result, parsed, err := h.service.Recommend(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := h.generator.Generate(reports.MealPlan{
		CalorieGoal: parsed.CalorieGoal,
		Preferences: parsed.Preferences.Strings(),
		Meals:       result.Meals,
	}, format)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("format", format).Msg("meal plan export failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate meal plan")
		return
	}

	if result.FellBack {
		w.Header().Set("X-Filter-Fallback", "true")
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "meal-plan."+format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleSimilar handles GET /v1/meals/similar?name=&limit=
func (h *Handler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	resp, err := h.service.Similar(q.Get("name"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCatalog handles GET /v1/meals/catalog
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Catalog()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeRecommendRequest(w http.ResponseWriter, r *http.Request) (RecommendRequest, bool) {
	req := NewRecommendRequest()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return req, false
	}
	return req, true
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.Is(err, recommender.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, recommender.ErrCorpusUnavailable):
		writeError(w, http.StatusServiceUnavailable, "corpus_unavailable", "Meal catalog is not loaded")
	case errors.Is(err, recommender.ErrMealNotFound):
		writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to recommend meals")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
