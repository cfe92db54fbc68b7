// Package app wires configuration, storage, providers, services, and the
// HTTP server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/glossa-app/glossa-backend/internal/adapter/email"
	"github.com/glossa-app/glossa-backend/internal/adapter/postgres"
	convrepo "github.com/glossa-app/glossa-backend/internal/adapter/postgres/conversation"
	msgrepo "github.com/glossa-app/glossa-backend/internal/adapter/postgres/message"
	"github.com/glossa-app/glossa-backend/internal/adapter/postgres/migrations"
	tokenrepo "github.com/glossa-app/glossa-backend/internal/adapter/postgres/token"
	userrepo "github.com/glossa-app/glossa-backend/internal/adapter/postgres/user"
	"github.com/glossa-app/glossa-backend/internal/adapter/provider/elevenlabs"
	"github.com/glossa-app/glossa-backend/internal/adapter/provider/googletrans"
	"github.com/glossa-app/glossa-backend/internal/adapter/provider/openai"
	"github.com/glossa-app/glossa-backend/internal/auth"
	"github.com/glossa-app/glossa-backend/internal/config"
	authsvc "github.com/glossa-app/glossa-backend/internal/service/auth"
	chatsvc "github.com/glossa-app/glossa-backend/internal/service/chat"
	conversationsvc "github.com/glossa-app/glossa-backend/internal/service/conversation"
	languagesvc "github.com/glossa-app/glossa-backend/internal/service/language"
	speechsvc "github.com/glossa-app/glossa-backend/internal/service/speech"
	usersvc "github.com/glossa-app/glossa-backend/internal/service/user"
	"github.com/glossa-app/glossa-backend/internal/transport/middleware"
	"github.com/glossa-app/glossa-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, runs migrations, wires services and handlers, and serves
// HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Repositories and transaction manager.
	users := userrepo.New(pool)
	conversations := convrepo.New(pool)
	messages := msgrepo.New(pool)
	tokens := tokenrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	// Token managers and outbound adapters.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	purposeTokens := auth.NewPurposeTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	mailer := email.NewMailer(cfg.SMTP, logger)
	openaiClient := openai.NewClient(cfg.OpenAI, logger)
	translateClient := googletrans.NewClient(cfg.Translate, logger)
	ttsClient := elevenlabs.NewClient(cfg.TTS, logger)

	// Services.
	authService := authsvc.NewService(logger, users, tokens, txManager, jwtManager, purposeTokens, mailer, cfg.Auth)
	userService := usersvc.NewService(logger, users, cfg.Auth.PasswordHashCost)
	conversationService := conversationsvc.NewService(logger, conversations, messages, openaiClient)
	chatService := chatsvc.NewService(logger, conversations, messages, openaiClient)
	languageService := languagesvc.NewService(logger, translateClient)
	speechService := speechsvc.NewService(logger, openaiClient, ttsClient)

	// HTTP layer.
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer rateLimiter.Stop()

	handlers := rest.Handlers{
		Auth:         rest.NewAuthHandler(authService, logger),
		User:         rest.NewUserHandler(userService, logger),
		Conversation: rest.NewConversationHandler(conversationService, logger),
		Chat:         rest.NewChatHandler(chatService, logger),
		Language:     rest.NewLanguageHandler(languageService, logger),
		Speech:       rest.NewSpeechHandler(speechService, logger),
		Health:       rest.NewHealthHandler(pool, BuildVersion()),
	}

	base := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	)

	router := rest.NewRouter(handlers, rest.RouterDeps{
		RateLimiter:   rateLimiter,
		AuthPerMinute: cfg.RateLimit.AuthPerMinute,
	}, base)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
