// Package server initializes and runs the StudyMate application server.
// It opens the database, applies migrations, wires repositories and services,
// and serves the HTTP API with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/chillele/studymate/internal/cryptox"
	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/comments"
	"github.com/chillele/studymate/internal/server/config"
	"github.com/chillele/studymate/internal/server/credentials"
	"github.com/chillele/studymate/internal/server/httpapi"
	"github.com/chillele/studymate/internal/server/mail"
	"github.com/chillele/studymate/internal/server/migrations"
	"github.com/chillele/studymate/internal/server/participations"
	"github.com/chillele/studymate/internal/server/reset"
	"github.com/chillele/studymate/internal/server/sessions"
	"github.com/chillele/studymate/internal/server/studies"
	"github.com/chillele/studymate/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// runMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := cryptox.NewBcryptHasher(cfg.BcryptCost)
	codec := auth.NewCodec([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	userRepo := users.NewPostgresRepository(db)
	credStore := credentials.NewPostgresStore(db)
	studyRepo := studies.NewPostgresRepository(db)
	commentRepo := comments.NewPostgresRepository(db)
	participationRepo := participations.NewPostgresRepository(db)

	var mailer mail.Sender
	if cfg.SMTPHost != "" {
		mailer, err = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		if err != nil {
			return nil, fmt.Errorf("smtp init error: %w", err)
		}
	} else {
		mailer = mail.NewLogSender(logger)
	}

	sessionSvc := sessions.NewService(userRepo, credStore, codec, hasher, logger)
	resetSvc := reset.NewService(userRepo,
		reset.NewChallengeStore(cfg.ResetCodeValidityDuration), mailer, hasher, logger)
	studySvc := studies.NewService(studyRepo, logger)
	commentSvc := comments.NewService(commentRepo, studyRepo, logger)
	participationSvc := participations.NewService(participationRepo, studyRepo, logger)
	userSvc := users.NewService(userRepo, logger)
	authenticator := auth.NewAuthenticator(codec, userRepo, logger)

	srv := httpapi.NewServer(sessionSvc, resetSvc, studySvc, commentSvc,
		participationSvc, userSvc, authenticator, cfg.RefreshTokenValidityDuration, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	httpServer := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.EndpointAddrHTTP)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
