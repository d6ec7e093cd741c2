package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/maxpot/internal/analyzer"
	"github.com/2beens/maxpot/internal/config"
	"github.com/2beens/maxpot/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting analytics service ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	host := flag.String("host", "localhost", "host for the analytics service")
	port := flag.Int("port", 8000, "port for the analytics service")
	redisHost := flag.String("rhost", "localhost", "redis host")
	redisPort := flag.Int("rport", 6379, "redis port")
	origins := flag.String("origins", "", "comma separated list of allowed CORS origins")
	envFile := flag.String("envfile", ".env", "optional .env file with secrets")

	logToStdout := flag.Bool("log-to-stdout", true, "log to stdout")
	logFilePath := flag.String("log-file-path", "", "path of the log file. empty - not logging to file")
	logLevel := flag.String("log-level", "debug", "log level")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())

	secrets, err := config.LoadSecrets(ctx, *envFile)
	if err != nil {
		panic(err)
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   *logFilePath,
		LogToStdout:   *logToStdout,
		LogLevel:      *logLevel,
		Environment:   *env,
		ServiceName:   "maxpot-analytics",
		SentryEnabled: secrets.SentryDSN != "",
		SentryDSN:     secrets.SentryDSN,
	})
	defer closeLogs()

	if secrets.RedisPassword == "" {
		log.Warnln("redis password not set. use MAXPOT_REDIS_PASS")
	}

	var allowedOrigins []string
	if *origins != "" {
		allowedOrigins = strings.Split(*origins, ",")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	analyticsService, err := analyzer.NewAnalyticsService(ctx, analyzer.NewAnalyticsServiceParams{
		RedisHost:        *redisHost,
		RedisPort:        *redisPort,
		RedisPassword:    secrets.RedisPassword,
		HoneycombEnabled: secrets.HoneycombEnabled,
		AllowedOrigins:   allowedOrigins,
	})
	if err != nil {
		log.Fatalf("failed to create analytics service: %s", err)
	}

	analyticsService.SetupAndServe(*host, *port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received ...", receivedSig)
	cancel()

	analyticsService.GracefulShutdown()
}
