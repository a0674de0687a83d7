// Package main is the entry point of the application
package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/castlegate/arena-server/internal/auth"
	"github.com/castlegate/arena-server/pkg/config"
	"github.com/castlegate/arena-server/pkg/coordinator"
	"github.com/castlegate/arena-server/pkg/events"
	"github.com/castlegate/arena-server/pkg/repository"
	"github.com/castlegate/arena-server/pkg/server"
)

// application encapsulates global dependencies
type application struct {
	Auth        *auth.TokenAuth
	Logger      *zap.Logger
	Config      *config.Config
	Publisher   *events.Publisher
	Coordinator *coordinator.Coordinator
	Hub         *server.Hub
	Server      *http.Server

	StartTime time.Time
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.String("port", "8080", "server port")
	flag.Parse()

	cfg := &config.Config{
		Debug: *debug,
		Port:  *port,
	}

	// Initialize logger
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded", zap.Error(err))
	}
	cfg.Load()

	// Initialize event publisher
	publisher := events.NewPublisher()

	// Initialize result recorders; persistence is best-effort and
	// never blocks game flow.
	recorders := initRecorders(cfg, logger)
	subscribeRecorders(publisher, recorders, logger)

	// Initialize the session coordinator
	coord := coordinator.New(publisher, logger, cfg.GraceWindow)

	hub := server.NewHub(coord, logger)

	app := &application{
		Auth:        auth.NewTokenAuth(cfg.AuthSecret),
		Logger:      logger,
		Config:      cfg,
		Publisher:   publisher,
		Coordinator: coord,
		Hub:         hub,
		StartTime:   time.Now(),
	}

	go app.Hub.Run()

	if err := app.serve(); err != nil {
		logger.Fatal("error serving", zap.Error(err))
	}
}

func initLogger(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}

// initRecorders builds the configured persistence backends.
func initRecorders(cfg *config.Config, logger *zap.Logger) []repository.Recorder {
	var recorders []repository.Recorder

	if cfg.DatabaseURL != "" {
		pg, err := repository.NewPostgresRecorder(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres recorder init error", zap.Error(err))
		}
		recorders = append(recorders, pg)
		logger.Info("postgres result recorder enabled")
	}

	if cfg.RedisURL != "" {
		rc, err := repository.NewRedisRecorder(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis recorder init error", zap.Error(err))
		}
		recorders = append(recorders, rc)
		logger.Info("redis result cache enabled")
	}

	if len(recorders) == 0 {
		recorders = append(recorders, repository.NewInMemoryRecorder())
		logger.Info("using in-memory result recorder")
	}

	return recorders
}

// subscribeRecorders hands every finished game to the recorders.
func subscribeRecorders(publisher *events.Publisher, recorders []repository.Recorder, logger *zap.Logger) {
	publisher.Subscribe(events.EventGameFinished, func(event events.Event) {
		payload, ok := event.Payload.(events.GameFinishedPayload)
		if !ok {
			logger.Error("invalid game finished payload type")
			return
		}

		res := repository.Result{
			GameID:        payload.GameID,
			White:         payload.White,
			Black:         payload.Black,
			GameType:      payload.GameType,
			Winner:        payload.Winner,
			Reason:        payload.Reason,
			FinalPosition: payload.FinalPosition,
			FinishedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, recorder := range recorders {
			if err := recorder.RecordResult(ctx, res); err != nil {
				logger.Error("record result error",
					zap.String("game_id", res.GameID),
					zap.Error(err))
			}
		}
	})
}

// Shutdown cleans up resources
func (app *application) Shutdown() {
	if app.Hub != nil {
		app.Hub.Shutdown()
	}

	app.Logger.Info("All components shut down successfully")
}
