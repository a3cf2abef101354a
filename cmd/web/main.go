package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/mvirta/fitpipe/internal/envstruct"
	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/flightrecorder"
	"github.com/mvirta/fitpipe/internal/logging"
	"github.com/mvirta/fitpipe/internal/sqlite"
	"github.com/mvirta/fitpipe/internal/workout"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	templateFS     fs.FS
	workoutService *workout.Service
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITPIPE_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITPIPE_SQLITE_URL" envDefault:"./fitpipe.sqlite3"`
	// OpenAIAPIKey enables LLM plan generation when set.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"FITPIPE_TEMPLATE_PATH" envDefault:""`
	// TracesDirectory is the directory where timeout traces are written.
	TracesDirectory string `env:"FITPIPE_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	tracesDirectory := cfg.TracesDirectory
	if tracesDirectory == "" {
		tracesDirectory = filepath.Join(os.TempDir(), "fitpipe-traces")
	}
	var recorder *flightrecorder.Service
	if recorder, err = flightrecorder.New(flightrecorder.Config{
		Logger:          logger,
		TracesDirectory: tracesDirectory,
	}); err != nil {
		return errors.Wrap(err, "new flight recorder")
	}
	if err = recorder.Start(ctx); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	defer recorder.Stop(ctx)

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := initializeSessionManager(db)

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		templateFS:     os.DirFS(htmlTemplatePath),
		workoutService: workout.NewService(db, logger, cfg.OpenAIAPIKey),
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 12 * time.Hour                                               //nolint:mnd // half a day
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
