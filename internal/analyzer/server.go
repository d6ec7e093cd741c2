package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/maxpot/internal/middleware"
	"github.com/2beens/maxpot/internal/telemetry/metrics"
	"github.com/2beens/maxpot/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// AnalyticsService is the standalone daily analysis HTTP service.
type AnalyticsService struct {
	service        *Service
	redisClient    *redis.Client
	metricsManager *metrics.Manager
	allowedOrigins []string
	otelShutdown   func()
	httpServer     *http.Server
}

type NewAnalyticsServiceParams struct {
	RedisHost        string
	RedisPort        int
	RedisPassword    string
	HoneycombEnabled bool
	AllowedOrigins   []string
}

func NewAnalyticsService(ctx context.Context, params NewAnalyticsServiceParams) (*AnalyticsService, error) {
	redisEndpoint := net.JoinHostPort(params.RedisHost, strconv.Itoa(params.RedisPort))
	log.Debugf("connecting to analytics redis: %s", redisEndpoint)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisEndpoint,
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Printf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombEnabled, "maxpot-analytics", rdb)
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	return &AnalyticsService{
		service:        NewService(NewRedisRepo(rdb)),
		redisClient:    rdb,
		metricsManager: metrics.NewManager("maxpot", "analytics", metrics.SetupPrometheus()),
		allowedOrigins: params.AllowedOrigins,
		otelShutdown:   otelShutdown,
	}, nil
}

func (as *AnalyticsService) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("maxpot-analytics-router"))

	NewHandler(as.service).SetupRoutes(r)

	r.Use(middleware.PanicRecovery(as.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(as.metricsManager))
	r.Use(middleware.Cors(as.allowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (as *AnalyticsService) SetupAndServe(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	as.httpServer = &http.Server{
		Handler:      as.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Infof(" > analytics service listening on: [%s]", ipAndPort)
		err := as.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("analytics service, listen and serve: %s", err)
		}
	}()
}

func (as *AnalyticsService) GracefulShutdown() {
	maxWaitDuration := time.Second * 10
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if as.httpServer != nil {
		if err := as.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	as.otelShutdown()

	if err := as.redisClient.Close(); err != nil {
		log.Errorf("failed to close redis client conn: %s", err)
	}
}
