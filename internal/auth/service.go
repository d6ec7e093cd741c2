package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/maxpot/internal/telemetry/tracing"
	"github.com/2beens/maxpot/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 30 * 24 * time.Hour
	sessionKeyPrefix = "maxpot-session||"
	tokensSetKey     = "maxpot-sessions"
	tokenLength      = 35
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUnknownUser        = errors.New("unknown user")
	ErrWrongPassword      = errors.New("wrong password")
	ErrInvalidCredentials = errors.New("username and password must not be empty")
	ErrSessionNotFound    = errors.New("session not found")
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=auth

type accountsRepo interface {
	Create(ctx context.Context, account *Account) error
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

type Service struct {
	accounts    accountsRepo
	redisClient *redis.Client
	ttl         time.Duration
	// injectable for tests
	RandStringFunc func(s int) (string, error)
	NewIDFunc      func() string
}

func NewAuthService(
	accounts accountsRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		accounts:       accounts,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		NewIDFunc:      uuid.NewString,
	}
}

// SignUp creates a new account with a bcrypt hashed password.
func (as *Service) SignUp(ctx context.Context, creds Credentials, createdAt time.Time) (*Account, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.signUp")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err = creds.validate(); err != nil {
		return nil, err
	}

	hash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:           as.NewIDFunc(),
		Username:     strings.TrimSpace(creds.Username),
		PasswordHash: hash,
		CreatedAt:    createdAt,
	}
	if err = as.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// SignIn checks the credentials and opens a new session for the account.
func (as *Service) SignIn(ctx context.Context, creds Credentials, createdAt time.Time) (string, *Account, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.signIn")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err = creds.validate(); err != nil {
		return "", nil, err
	}

	account, err := as.accounts.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		return "", nil, err
	}

	if !pkg.CheckPasswordHash(creds.Password, account.PasswordHash) {
		err = ErrWrongPassword
		return "", nil, err
	}

	token, err := as.Login(ctx, account.ID, createdAt)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

// Login stores a new session token for userID. The session key also carries
// a redis expiry so abandoned sessions vanish even without ScanAndClean.
func (as *Service) Login(ctx context.Context, userID string, createdAt time.Time) (string, error) {
	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, encodeSession(userID, createdAt), as.ttl)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout removes the session and reports whether it was still valid.
func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, ErrSessionNotFound
		}
		return false, err
	}

	_, createdAt, err := decodeSession(cmd.Val())
	if err != nil {
		return false, err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return false, err
	}

	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return time.Since(createdAt) <= as.ttl, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old or gone
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		cmd := as.redisClient.Get(ctx, sessionKeyPrefix+token)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := decodeSession(cmd.Val())
		if err != nil {
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
	}
	log.Debugf("auth service, scan and clean removed %d sessions", len(toRemove))
}

// session values are stored as "<created-at-unix>|<user-id>"
func encodeSession(userID string, createdAt time.Time) string {
	return fmt.Sprintf("%d|%s", createdAt.Unix(), userID)
}

func decodeSession(val string) (string, time.Time, error) {
	createdAtStr, userID, found := strings.Cut(val, "|")
	if !found || userID == "" {
		return "", time.Time{}, fmt.Errorf("malformed session value [%s]", val)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parse session created at: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}
