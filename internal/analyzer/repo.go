package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	profileKeyPrefix = "maxpot-analytics-profile||"
	loadsKeyPrefix   = "maxpot-analytics-loads||"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrNoTrainingData  = errors.New("no training data for user")
)

// RedisRepo keeps user profiles and the per-user daily load history in redis.
type RedisRepo struct {
	redisClient *redis.Client
}

func NewRedisRepo(redisClient *redis.Client) *RedisRepo {
	return &RedisRepo{
		redisClient: redisClient,
	}
}

func (r *RedisRepo) SaveProfile(ctx context.Context, profile UserProfile) error {
	profileJson, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.redisClient.Set(ctx, profileKeyPrefix+profile.ID, profileJson, 0).Err(); err != nil {
		return fmt.Errorf("save profile [%s]: %w", profile.ID, err)
	}
	return nil
}

func (r *RedisRepo) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	cmd := r.redisClient.Get(ctx, profileKeyPrefix+userID)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile [%s]: %w", userID, err)
	}

	var profile UserProfile
	if err := json.Unmarshal([]byte(cmd.Val()), &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile [%s]: %w", userID, err)
	}
	return &profile, nil
}

func (r *RedisRepo) GetLoads(ctx context.Context, userID string) ([]float64, error) {
	cmd := r.redisClient.LRange(ctx, loadsKeyPrefix+userID, 0, -1)
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("get loads [%s]: %w", userID, err)
	}

	loads := make([]float64, 0, len(cmd.Val()))
	for _, v := range cmd.Val() {
		load, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse load [%s] for [%s]: %w", v, userID, err)
		}
		loads = append(loads, load)
	}
	return loads, nil
}

func (r *RedisRepo) AppendLoad(ctx context.Context, userID string, load float64) error {
	val := strconv.FormatFloat(load, 'f', -1, 64)
	if err := r.redisClient.RPush(ctx, loadsKeyPrefix+userID, val).Err(); err != nil {
		return fmt.Errorf("append load [%s]: %w", userID, err)
	}
	return nil
}
