package tracker

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2beens/maxpot/internal/analysis"
	"github.com/2beens/maxpot/internal/dailylog"
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/telemetry/metrics"
	"github.com/2beens/maxpot/internal/telemetry/tracing"
	"github.com/2beens/maxpot/internal/timeutil"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracker_test

const (
	DefaultSaveDebounce = 800 * time.Millisecond
	saveTimeout         = 10 * time.Second
)

var ErrAnalysisDisabled = errors.New("analysis service not configured")

type stateRepo interface {
	Load(ctx context.Context, userID, todayKey string) (*entry.State, error)
	Save(ctx context.Context, userID string, state *entry.State, updatedAt time.Time) error
}

type analysisClient interface {
	AnalyzeDaily(ctx context.Context, req analysis.DailyRequest) (*analysis.DailyAnalysis, error)
}

// userSession owns one user's state. mu guards every field; saveMu keeps
// saves of the same user in order.
type userSession struct {
	mu     sync.Mutex
	saveMu sync.Mutex

	state       *entry.State
	dirty       bool
	saveTimer   *time.Timer
	saveErr     string
	lastSavedAt time.Time

	analysis    *analysis.DailyAnalysis
	analysisErr string
	analyzedAt  time.Time
}

// Snapshot is a point-in-time copy of a user's state plus the status of the
// background save and analysis.
type Snapshot struct {
	State         *entry.State
	SaveError     string
	LastSavedAt   time.Time
	Analysis      *analysis.DailyAnalysis
	AnalysisError string
	AnalyzedAt    time.Time
}

type Service struct {
	repo           stateRepo
	analysisClient analysisClient
	calendar       *timeutil.Calendar
	saveDebounce   time.Duration
	metrics        *metrics.Manager

	mu       sync.Mutex
	sessions map[string]*userSession

	closed       atomic.Bool
	pendingSaves sync.WaitGroup
}

type NewServiceParams struct {
	Repo stateRepo
	// optional, analysis is not triggered when nil
	AnalysisClient analysisClient
	Calendar       *timeutil.Calendar
	SaveDebounce   time.Duration
	MetricsManager *metrics.Manager
}

func NewService(params NewServiceParams) *Service {
	calendar := params.Calendar
	if calendar == nil {
		calendar = timeutil.NewCalendar(time.Now, time.Local)
	}
	debounce := params.SaveDebounce
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}

	return &Service{
		repo:           params.Repo,
		analysisClient: params.AnalysisClient,
		calendar:       calendar,
		saveDebounce:   debounce,
		metrics:        metricsManager,
		sessions:       map[string]*userSession{},
	}
}

// Now is the current time on the service calendar.
func (s *Service) Now() time.Time {
	return s.calendar.Now()
}

func (s *Service) AnalysisEnabled() bool {
	return s.analysisClient != nil
}

// session returns the loaded session for userID, loading the stored document
// (or a fresh default state) on first use.
func (s *Service) session(ctx context.Context, userID string) (*userSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	todayKey := s.calendar.TodayKey()
	state, err := s.repo.Load(ctx, userID, todayKey)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		log.Debugf("tracker: no stored state for [%s], starting fresh", userID)
		state = entry.NewState(todayKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[userID]; ok {
		return existing, nil
	}
	sess = &userSession{state: state}
	s.sessions[userID] = sess
	s.metrics.GaugeLoadedStates.Inc()

	return sess, nil
}

func (sess *userSession) snapshot() *Snapshot {
	return &Snapshot{
		State:         sess.state.Clone(),
		SaveError:     sess.saveErr,
		LastSavedAt:   sess.lastSavedAt,
		Analysis:      sess.analysis,
		AnalysisError: sess.analysisErr,
		AnalyzedAt:    sess.analyzedAt,
	}
}

func (s *Service) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.rolloverLocked(userID, sess)

	return sess.snapshot(), nil
}

// Modify runs fn against the user's state under the session lock. A save is
// scheduled when fn reports a change.
func (s *Service) Modify(ctx context.Context, userID string, fn func(state *entry.State) (bool, error)) (*Snapshot, bool, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.rolloverLocked(userID, sess)

	applied, err := fn(sess.state)
	if err != nil {
		return sess.snapshot(), false, err
	}
	if applied {
		s.scheduleSaveLocked(userID, sess)
	}

	return sess.snapshot(), applied, nil
}

// Update applies a day mutation to dateKey, today when empty.
func (s *Service) Update(ctx context.Context, userID, dateKey string, m dailylog.Mutation) (*Snapshot, bool, error) {
	return s.UpdateWith(ctx, userID, dateKey, func(*entry.State) dailylog.Mutation {
		return m
	})
}

// UpdateWith is Update for mutations that depend on the rest of the state,
// like the water bottle size or saved packets.
func (s *Service) UpdateWith(ctx context.Context, userID, dateKey string, build func(state *entry.State) dailylog.Mutation) (*Snapshot, bool, error) {
	return s.Modify(ctx, userID, func(state *entry.State) (bool, error) {
		key := dateKey
		if key == "" {
			key = state.TodayKey
		}
		return dailylog.Apply(state, key, build(state)), nil
	})
}

func (s *Service) rolloverLocked(userID string, sess *userSession) {
	todayKey := s.calendar.TodayKey()
	if !sess.state.Rollover(todayKey) {
		return
	}
	log.Debugf("tracker: [%s] rolled over to %s", userID, todayKey)
	s.metrics.CounterRollovers.Inc()
	s.scheduleSaveLocked(userID, sess)
}

// RunRollover moves every loaded state to the current day on each tick,
// until ctx is done.
func (s *Service) RunRollover(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("tracker: rollover loop stopped")
			return
		case <-ticker.C:
			s.RolloverAll()
		}
	}
}

func (s *Service) RolloverAll() {
	s.mu.Lock()
	sessions := maps.Clone(s.sessions)
	s.mu.Unlock()

	for userID, sess := range sessions {
		sess.mu.Lock()
		s.rolloverLocked(userID, sess)
		sess.mu.Unlock()
	}
}

// scheduleSaveLocked (re)arms the debounce timer. Every armed run of the
// timer func is counted in pendingSaves.
func (s *Service) scheduleSaveLocked(userID string, sess *userSession) {
	sess.dirty = true
	if s.closed.Load() {
		return
	}

	if sess.saveTimer == nil {
		s.pendingSaves.Add(1)
		sess.saveTimer = time.AfterFunc(s.saveDebounce, func() {
			defer s.pendingSaves.Done()
			s.debouncedSave(userID, sess)
		})
		return
	}

	if !sess.saveTimer.Stop() {
		s.pendingSaves.Add(1)
	}
	sess.saveTimer.Reset(s.saveDebounce)
}

func (s *Service) debouncedSave(userID string, sess *userSession) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	saved, err := s.flush(ctx, userID, sess)
	if err != nil {
		log.Errorf("tracker: save state [%s]: %s", userID, err)
		return
	}
	if !saved || s.analysisClient == nil || s.closed.Load() {
		return
	}

	if _, err := s.runAnalysis(ctx, userID, sess, "auto"); err != nil {
		log.Warnf("tracker: analysis after save [%s]: %s", userID, err)
	}
}

// flush saves the state when it changed since the last save.
func (s *Service) flush(ctx context.Context, userID string, sess *userSession) (bool, error) {
	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()

	sess.mu.Lock()
	if !sess.dirty {
		sess.mu.Unlock()
		return false, nil
	}
	state := sess.state.Clone()
	sess.dirty = false
	sess.mu.Unlock()

	now := s.calendar.Now()
	start := time.Now()
	err := s.repo.Save(ctx, userID, state, now)
	s.metrics.HistogramSaveDuration.Observe(time.Since(start).Seconds())

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		// kept dirty, retried with the next change or on close
		sess.dirty = true
		sess.saveErr = fmt.Sprintf("failed to save: %s", err)
		s.metrics.CounterStateSaves.WithLabelValues("error").Inc()
		return false, err
	}

	sess.saveErr = ""
	sess.lastSavedAt = now
	s.metrics.CounterStateSaves.WithLabelValues("ok").Inc()
	return true, nil
}

func (s *Service) runAnalysis(ctx context.Context, userID string, sess *userSession, source string) (*analysis.DailyAnalysis, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackerService.runAnalysis")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if s.analysisClient == nil {
		err = ErrAnalysisDisabled
		return nil, err
	}

	sess.mu.Lock()
	req := analysis.BuildDailyRequest(userID, sess.state)
	sess.mu.Unlock()

	s.metrics.CounterAnalysisRequests.WithLabelValues(source).Inc()
	start := time.Now()
	result, err := s.analysisClient.AnalyzeDaily(ctx, req)
	s.metrics.HistogramAnalysisDuration.Observe(time.Since(start).Seconds())

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		sess.analysisErr = err.Error()
		return nil, err
	}
	sess.analysis = result
	sess.analysisErr = ""
	sess.analyzedAt = s.calendar.Now()

	return result, nil
}

// RefreshAnalysis runs the daily analysis now, regardless of pending saves.
func (s *Service) RefreshAnalysis(ctx context.Context, userID string) (*Snapshot, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	s.rolloverLocked(userID, sess)
	sess.mu.Unlock()

	_, err = s.runAnalysis(ctx, userID, sess, "manual")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), err
}

// Close stops pending timers and saves every changed state. No saves are
// scheduled afterwards.
func (s *Service) Close(ctx context.Context) error {
	s.closed.Store(true)

	s.mu.Lock()
	sessions := maps.Clone(s.sessions)
	s.mu.Unlock()

	var err error
	for userID, sess := range sessions {
		sess.mu.Lock()
		if sess.saveTimer != nil && sess.saveTimer.Stop() {
			s.pendingSaves.Done()
		}
		sess.mu.Unlock()

		if _, flushErr := s.flush(ctx, userID, sess); flushErr != nil {
			err = multierr.Append(err, fmt.Errorf("flush state [%s]: %w", userID, flushErr))
		}
	}

	done := make(chan struct{})
	go func() {
		s.pendingSaves.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		err = multierr.Append(err, fmt.Errorf("wait for pending saves: %w", ctx.Err()))
	}

	return err
}
