package analyzer

import (
	"context"
	"fmt"

	"github.com/2beens/maxpot/internal/analysis"
	"github.com/2beens/maxpot/internal/telemetry/tracing"
	"github.com/2beens/maxpot/internal/trainingload"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=analyzer_test

type store interface {
	SaveProfile(ctx context.Context, profile UserProfile) error
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	GetLoads(ctx context.Context, userID string) ([]float64, error)
	AppendLoad(ctx context.Context, userID string, load float64) error
}

type Service struct {
	store store
}

func NewService(store store) *Service {
	return &Service{
		store: store,
	}
}

func (s *Service) UpsertProfile(ctx context.Context, userID string, profile UserProfile) (*UserProfile, error) {
	profile.ID = userID
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	return s.store.GetProfile(ctx, userID)
}

// Analyze runs the daily analysis. Loads sent with the request take
// precedence; when none are sent the stored history is used, and it only
// grows when the request omitted the field entirely.
func (s *Service) Analyze(ctx context.Context, req analysis.DailyRequest) (*analysis.DailyAnalysis, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzerService.analyze")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	profile, err := s.store.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	history := req.RecentTrainingLoads
	if len(history) == 0 {
		if history, err = s.store.GetLoads(ctx, req.UserID); err != nil {
			return nil, err
		}
	}

	result := AnalyzeDay(*profile, req, history)

	if req.RecentTrainingLoads == nil {
		if err = s.store.AppendLoad(ctx, req.UserID, result.TrainingLoadToday); err != nil {
			return nil, fmt.Errorf("store today's load: %w", err)
		}
	}

	return &result, nil
}

func (s *Service) TrainingLoadSummary(ctx context.Context, userID string) (*trainingload.Summary, error) {
	loads, err := s.store.GetLoads(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(loads) == 0 {
		return nil, ErrNoTrainingData
	}
	summary := trainingload.Summarize(loads)
	return &summary, nil
}
