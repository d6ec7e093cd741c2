package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/maxpot/internal/telemetry/metrics"
	"github.com/2beens/maxpot/internal/telemetry/tracing"
	"github.com/2beens/maxpot/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-MAXPOT-TOKEN"

type Handler struct {
	authService *Service
	metrics     *metrics.Manager
}

type SignInResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func NewHandler(authService *Service, metrics *metrics.Manager) *Handler {
	return &Handler{
		authService: authService,
		metrics:     metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/signup", handler.HandleSignUp).Methods("POST", "OPTIONS").Name("signup")
	router.HandleFunc("/signin", handler.HandleSignIn).Methods("POST", "OPTIONS").Name("signin")
	router.HandleFunc("/signout", handler.HandleSignOut).Methods("GET", "OPTIONS").Name("signout")
}

func readCredentials(r *http.Request) (Credentials, error) {
	var creds Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return Credentials{}, fmt.Errorf("unmarshal json params: %w", err)
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return Credentials{}, fmt.Errorf("parse form: %w", err)
	}
	return Credentials{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signUp")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("sign up: %s", err)
		http.Error(w, "sign up failed", http.StatusBadRequest)
		return
	}

	account, err := handler.authService.SignUp(ctx, creds, time.Now())
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrUserExists):
		http.Error(w, "error, username taken", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("sign up [%s]: %s", creds.Username, err)
		http.Error(w, "sign up failed", http.StatusInternalServerError)
		return
	}

	accountJson, err := json.Marshal(account)
	if err != nil {
		log.Errorf("marshal account: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}

	log.Debugf("new account created: %s", account.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, accountJson, http.StatusCreated)
}

func (handler *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signIn")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("sign in: %s", err)
		http.Error(w, "sign in failed", http.StatusBadRequest)
		return
	}

	token, account, err := handler.authService.SignIn(ctx, creds, time.Now())
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		handler.metrics.CounterSignIns.WithLabelValues("invalid").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrUnknownUser), errors.Is(err, ErrWrongPassword):
		log.Tracef("failed sign in attempt for user: %s", creds.Username)
		handler.metrics.CounterSignIns.WithLabelValues("rejected").Inc()
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("sign in [%s]: %s", creds.Username, err)
		handler.metrics.CounterSignIns.WithLabelValues("error").Inc()
		http.Error(w, "sign in failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSignIns.WithLabelValues("ok").Inc()
	respJson, err := json.Marshal(SignInResponse{Token: token, UserID: account.ID})
	if err != nil {
		log.Errorf("marshal sign in response: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signOut")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("sign out: %s", err)
		http.Error(w, "sign out failed", http.StatusInternalServerError)
		return
	}

	if !loggedOut {
		http.Error(w, "session already expired", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "signed out")
}
