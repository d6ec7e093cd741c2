package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/maxpot/internal/analysis"
	"github.com/2beens/maxpot/internal/auth"
	"github.com/2beens/maxpot/internal/dailylog"
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/scoring"
	"github.com/2beens/maxpot/internal/telemetry/metrics"
	"github.com/2beens/maxpot/internal/timeutil"
	"github.com/2beens/maxpot/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/state", h.HandleGetState).Methods("GET", "OPTIONS").Name("state")
	router.HandleFunc("/scores/today", h.HandleTodayScores).Methods("GET", "OPTIONS").Name("scores-today")
	router.HandleFunc("/readiness/timeline", h.HandleTimeline).Methods("GET", "OPTIONS").Name("readiness-timeline")
	router.HandleFunc("/streak", h.HandleStreak).Methods("GET", "OPTIONS").Name("streak")
	router.HandleFunc("/series/{metric}/{period}", h.HandleSeries).Methods("GET", "OPTIONS").Name("series")

	router.HandleFunc("/log/water", h.HandleLogWater).Methods("POST", "OPTIONS").Name("log-water")
	router.HandleFunc("/log/sleep", h.HandleLogSleep).Methods("POST", "OPTIONS").Name("log-sleep")
	router.HandleFunc("/log/electrolyte", h.HandleLogElectrolyte).Methods("POST", "OPTIONS").Name("log-electrolyte")
	router.HandleFunc("/log/electrolytes/batch", h.HandleLogElectrolyteBatch).Methods("POST", "OPTIONS").Name("log-electrolytes-batch")
	router.HandleFunc("/log/workout", h.HandleLogWorkout).Methods("POST", "OPTIONS").Name("log-workout")
	router.HandleFunc("/log/{date}/workout/{id}", h.HandleRemoveWorkout).Methods("DELETE", "OPTIONS").Name("remove-workout")

	router.HandleFunc("/goals", h.HandleUpdateGoals).Methods("PUT", "OPTIONS").Name("goals")
	router.HandleFunc("/packets", h.HandleAddPacket).Methods("POST", "OPTIONS").Name("add-packet")
	router.HandleFunc("/packets/{id}", h.HandleRemovePacket).Methods("DELETE", "OPTIONS").Name("remove-packet")
	router.HandleFunc("/reminders", h.HandleGetReminders).Methods("GET", "OPTIONS").Name("reminders")
	router.HandleFunc("/reminders/{key}", h.HandleUpdateReminder).Methods("PUT", "OPTIONS").Name("reminder")

	router.HandleFunc("/analysis", h.HandleGetAnalysis).Methods("GET", "OPTIONS").Name("analysis")
	router.HandleFunc("/analysis/refresh", h.HandleRefreshAnalysis).Methods("POST", "OPTIONS").Name("analysis-refresh")
}

type StateResponse struct {
	State         entry.Document   `json:"state"`
	Progress      scoring.Progress `json:"progress"`
	SaveError     string           `json:"saveError,omitempty"`
	AnalysisError string           `json:"analysisError,omitempty"`
}

type MutationResponse struct {
	Applied bool `json:"applied"`
	StateResponse
}

type TodayScoresResponse struct {
	Scores   scoring.DayScores `json:"scores"`
	Progress scoring.Progress  `json:"progress"`
}

type SeriesResponse struct {
	Metric scoring.Metric        `json:"metric"`
	Period scoring.Period        `json:"period"`
	Points []scoring.SeriesPoint `json:"points"`
	Trend  *scoring.Trend        `json:"trend,omitempty"`
}

type AnalysisResponse struct {
	Enabled       bool                    `json:"enabled"`
	Analysis      *analysis.DailyAnalysis `json:"analysis"`
	AnalysisError string                  `json:"analysisError,omitempty"`
	AnalyzedAt    *time.Time              `json:"analyzedAt,omitempty"`
}

func handleOptions(w http.ResponseWriter, r *http.Request, allow string) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Add("Allow", allow+", OPTIONS")
	w.WriteHeader(http.StatusOK)
	return true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, body, status)
}

func stateResponse(snap *Snapshot) StateResponse {
	updatedAt := snap.LastSavedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return StateResponse{
		State:         snap.State.Document(updatedAt),
		Progress:      scoring.ProgressOf(snap.State.Today(), snap.State.Goals),
		SaveError:     snap.SaveError,
		AnalysisError: snap.AnalysisError,
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*Snapshot, bool) {
	userID, ok := h.userID(w, r)
	if !ok {
		return nil, false
	}
	snap, err := h.service.Snapshot(r.Context(), userID)
	if err != nil {
		log.Errorf("get state [%s]: %s", userID, err)
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return nil, false
	}
	return snap, true
}

func (h *Handler) writeMutation(w http.ResponseWriter, kind string, snap *Snapshot, applied bool) {
	h.metrics.CounterLogMutations.WithLabelValues(kind, strconv.FormatBool(applied)).Inc()
	writeJSON(w, MutationResponse{
		Applied:       applied,
		StateResponse: stateResponse(snap),
	}, http.StatusOK)
}

// update runs a day mutation for the request user and writes the outcome.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, kind, date string, mutation func(state *entry.State) dailylog.Mutation) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := validDate(date); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, applied, err := h.service.UpdateWith(r.Context(), userID, date, mutation)
	if err != nil {
		log.Errorf("%s [%s]: %s", kind, userID, err)
		http.Error(w, "failed to update state", http.StatusInternalServerError)
		return
	}

	h.writeMutation(w, kind, snap, applied)
}

func parseMode(w http.ResponseWriter, raw string) (dailylog.Mode, bool) {
	mode, err := dailylog.ParseMode(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return mode, true
}

func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, stateResponse(snap), http.StatusOK)
}

func (h *Handler) HandleTodayScores(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	state := snap.State
	writeJSON(w, TodayScoresResponse{
		Scores:   scoring.TodayScores(state.History.Sorted(), state.Today(), state.Goals),
		Progress: scoring.ProgressOf(state.Today(), state.Goals),
	}, http.StatusOK)
}

func (h *Handler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	state := snap.State
	writeJSON(w, map[string]any{
		"points": scoring.Timeline(state.History.Sorted(), state.Today(), state.Goals),
	}, http.StatusOK)
}

func (h *Handler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	state := snap.State
	writeJSON(w, map[string]int{
		"streak": scoring.ConsistencyStreak(state.History.Sorted(), state.Today(), state.Goals),
	}, http.StatusOK)
}

func (h *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}

	vars := mux.Vars(r)
	metric, err := scoring.ParseMetric(vars["metric"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	period, err := scoring.ParsePeriod(vars["period"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	points := scoring.Series(snap.State.History.Sorted(), metric, period)
	resp := SeriesResponse{
		Metric: metric,
		Period: period,
		Points: points,
	}
	if trend, ok := scoring.WeekOverWeek(metric, scoring.SeriesValues(points)); ok {
		resp.Trend = &trend
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleLogWater(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}

	var req logRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, ok := parseMode(w, req.Mode)
	if !ok {
		return
	}
	unit := dailylog.WaterUnit(req.Unit)
	switch unit {
	case "":
		unit = dailylog.UnitMl
	case dailylog.UnitMl, dailylog.UnitBottles:
	default:
		http.Error(w, "unit must be ml or bottles", http.StatusBadRequest)
		return
	}

	h.update(w, r, "water", req.Date, func(state *entry.State) dailylog.Mutation {
		return dailylog.Water(mode, unit, string(req.Value), state.Goals.WaterBottleMl)
	})
}

func (h *Handler) HandleLogSleep(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}

	var req logRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, ok := parseMode(w, req.Mode)
	if !ok {
		return
	}

	h.update(w, r, "sleep", req.Date, func(*entry.State) dailylog.Mutation {
		return dailylog.Sleep(mode, string(req.Value))
	})
}

func (h *Handler) HandleLogElectrolyte(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}

	var req electrolyteRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, ok := parseMode(w, req.Mode)
	if !ok {
		return
	}
	mineral := entry.Mineral(req.Mineral)
	if !mineral.IsValid() {
		http.Error(w, "unknown mineral", http.StatusBadRequest)
		return
	}

	h.update(w, r, "electrolyte", req.Date, func(*entry.State) dailylog.Mutation {
		return dailylog.Electrolyte(mode, mineral, string(req.Value))
	})
}

// HandleLogElectrolyteBatch adds raw amounts, or the amounts of a saved
// packet when packetId is set.
func (h *Handler) HandleLogElectrolyteBatch(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}

	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.update(w, r, "electrolytes_batch", req.Date, func(state *entry.State) dailylog.Mutation {
		if req.PacketID == "" {
			return dailylog.ElectrolyteBatch(mineralAmounts(req.Amounts))
		}
		packet, found := entry.FindPacket(state.ElectrolytePackets, req.PacketID)
		if !found {
			log.Debugf("electrolyte batch: unknown packet [%s]", req.PacketID)
			return func(*entry.DayEntry) bool { return false }
		}
		return dailylog.ElectrolyteBatch(dailylog.PacketAmounts(packet))
	})
}

func (h *Handler) HandleLogWorkout(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}

	var req workoutRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		http.Error(w, "workout type is required", http.StatusBadRequest)
		return
	}

	now := h.service.calendar.Now()
	h.update(w, r, "workout", req.Date, func(*entry.State) dailylog.Mutation {
		return func(e *entry.DayEntry) bool {
			session := req.session(dailylog.SessionID(*e, now))
			return dailylog.AddWorkout(session)(e)
		}
	})
}

func (h *Handler) HandleRemoveWorkout(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "DELETE") {
		return
	}

	vars := mux.Vars(r)
	if !timeutil.IsDayKey(vars["date"]) {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	h.update(w, r, "remove_workout", vars["date"], func(*entry.State) dailylog.Mutation {
		return dailylog.RemoveWorkout(vars["id"])
	})
}

func (h *Handler) HandleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "PUT") {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var patch dailylog.GoalsPatch
	if err := decodeBody(r, &patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, applied, err := h.service.Modify(r.Context(), userID, func(state *entry.State) (bool, error) {
		return dailylog.UpdateGoals(state, patch), nil
	})
	if err != nil {
		log.Errorf("update goals [%s]: %s", userID, err)
		http.Error(w, "failed to update goals", http.StatusInternalServerError)
		return
	}

	h.writeMutation(w, "goals", snap, applied)
}

func (h *Handler) HandleAddPacket(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req packetRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	packet, err := dailylog.NewPacket(uuid.NewString(), req.Name, mineralAmounts(req.Amounts))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, _, err := h.service.Modify(r.Context(), userID, func(state *entry.State) (bool, error) {
		dailylog.AddPacket(state, packet)
		return true, nil
	})
	if err != nil {
		log.Errorf("add packet [%s]: %s", userID, err)
		http.Error(w, "failed to add packet", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterLogMutations.WithLabelValues("add_packet", "true").Inc()
	writeJSON(w, MutationResponse{
		Applied:       true,
		StateResponse: stateResponse(snap),
	}, http.StatusCreated)
}

func (h *Handler) HandleRemovePacket(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "DELETE") {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	packetID := mux.Vars(r)["id"]
	snap, applied, err := h.service.Modify(r.Context(), userID, func(state *entry.State) (bool, error) {
		return dailylog.RemovePacket(state, packetID), nil
	})
	if err != nil {
		log.Errorf("remove packet [%s]: %s", userID, err)
		http.Error(w, "failed to remove packet", http.StatusInternalServerError)
		return
	}

	h.writeMutation(w, "remove_packet", snap, applied)
}

// HandleUpdateReminder sets the time first; an invalid time is rejected and
// nothing changes.
func (h *Handler) HandleGetReminders(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	writeJSON(w, map[string][]dailylog.ReminderSchedule{
		"reminders": dailylog.ReminderSchedules(snap.State.Reminders, h.service.Now()),
	}, http.StatusOK)
}

func (h *Handler) HandleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "PUT") {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	key := entry.ReminderKey(mux.Vars(r)["key"])
	if !key.IsValid() {
		http.Error(w, "unknown reminder", http.StatusNotFound)
		return
	}

	var req reminderRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, applied, err := h.service.Modify(r.Context(), userID, func(state *entry.State) (bool, error) {
		changed := false
		if req.Time != nil {
			timeChanged, err := dailylog.SetReminderTime(state, key, *req.Time)
			if err != nil {
				return false, err
			}
			changed = timeChanged
		}
		if req.Enabled != nil && dailylog.SetReminderEnabled(state, key, *req.Enabled) {
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		if errors.Is(err, timeutil.ErrInvalidTime) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("update reminder [%s] [%s]: %s", userID, key, err)
		http.Error(w, "failed to update reminder", http.StatusInternalServerError)
		return
	}

	h.writeMutation(w, "reminder", snap, applied)
}

func analysisResponse(enabled bool, snap *Snapshot) AnalysisResponse {
	resp := AnalysisResponse{
		Enabled:       enabled,
		Analysis:      snap.Analysis,
		AnalysisError: snap.AnalysisError,
	}
	if !snap.AnalyzedAt.IsZero() {
		analyzedAt := snap.AnalyzedAt
		resp.AnalyzedAt = &analyzedAt
	}
	return resp
}

func (h *Handler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET") {
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, analysisResponse(h.service.AnalysisEnabled(), snap), http.StatusOK)
}

func (h *Handler) HandleRefreshAnalysis(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "POST") {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if !h.service.AnalysisEnabled() {
		http.Error(w, ErrAnalysisDisabled.Error(), http.StatusServiceUnavailable)
		return
	}

	snap, err := h.service.RefreshAnalysis(r.Context(), userID)
	if snap == nil {
		log.Errorf("refresh analysis [%s]: %s", userID, err)
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}
	if err != nil {
		log.Warnf("refresh analysis [%s]: %s", userID, err)
		writeJSON(w, analysisResponse(true, snap), http.StatusBadGateway)
		return
	}

	writeJSON(w, analysisResponse(true, snap), http.StatusOK)
}
