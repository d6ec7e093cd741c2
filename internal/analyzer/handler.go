package analyzer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/maxpot/internal/analysis"
	"github.com/2beens/maxpot/internal/timeutil"
	"github.com/2beens/maxpot/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{id}", h.HandleUpsertProfile).Methods("POST").Name("upsert-profile")
	router.HandleFunc("/users/{id}", h.HandleGetProfile).Methods("GET").Name("get-profile")
	router.HandleFunc("/analyze/daily", h.HandleAnalyzeDaily).Methods("POST").Name("analyze-daily")
	router.HandleFunc("/training-load/{id}", h.HandleTrainingLoad).Methods("GET").Name("training-load")
}

func writeDetail(w http.ResponseWriter, detail string, status int) {
	body, _ := json.Marshal(errorResponse{Detail: detail})
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, body, status)
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, body)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		writeDetail(w, "User profile not found", http.StatusNotFound)
	case errors.Is(err, ErrNoTrainingData):
		writeDetail(w, "No training data for user", http.StatusNotFound)
	case errors.Is(err, ErrInvalidProfile):
		writeDetail(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Errorf("%s: %s", op, err)
		writeDetail(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	profile := NewDefaultProfile()
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeDetail(w, "invalid profile payload", http.StatusUnprocessableEntity)
		return
	}

	saved, err := h.service.UpsertProfile(r.Context(), userID, profile)
	if err != nil {
		h.writeServiceError(w, "upsert profile", err)
		return
	}

	writeJSON(w, saved)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "get profile", err)
		return
	}
	writeJSON(w, profile)
}

func (h *Handler) HandleAnalyzeDaily(w http.ResponseWriter, r *http.Request) {
	var req analysis.DailyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, "invalid daily payload", http.StatusUnprocessableEntity)
		return
	}
	if req.UserID == "" || !timeutil.IsDayKey(req.Date) {
		writeDetail(w, "user_id and a YYYY-MM-DD date are required", http.StatusUnprocessableEntity)
		return
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "analyze daily", err)
		return
	}

	writeJSON(w, result)
}

func (h *Handler) HandleTrainingLoad(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.TrainingLoadSummary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "training load summary", err)
		return
	}
	writeJSON(w, summary)
}
