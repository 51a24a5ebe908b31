package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NameMyChild/docs"
	"NameMyChild/internal/auth"
	"NameMyChild/internal/config"
	"NameMyChild/internal/handler"
	"NameMyChild/internal/llm"
	"NameMyChild/internal/logging"
	"NameMyChild/internal/names"
	"NameMyChild/internal/notify"
	"NameMyChild/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title                       Name My Child API
// @version                     1.0
// @description                 Baby-name suggestions and per-user saved names.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsingDefaultSecret() {
		logger.Warn("JWT_SECRET_KEY environment variable is not set. Using default key.")
	}

	store, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	service, err := newNameService(ctx, cfg)
	if err != nil {
		return err
	}

	var tts llm.Synthesizer
	if cfg.TTSCredential != "" {
		client, err := llm.NewTTSClient(ctx, cfg.TTSCredential)
		if err != nil {
			logger.Warn("pronunciation disabled", zap.Error(err))
		} else {
			defer client.Close()
			tts = client
		}
	}

	h := handler.New(handler.Options{
		Store:     store,
		Tokens:    auth.NewTokenManager(cfg.JWTSecretKey, cfg.TokenTTL),
		Hub:       notify.NewHub(),
		Names:     service,
		TTS:       tts,
		PublicURL: cfg.PublicURL,
		LinkTTL:   cfg.MagicLinkTTL,
		Logger:    logger,
	})

	router := gin.New()
	router.Use(gin.Recovery(), logging.GinLogger(logger))
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	docs.SwaggerInfo.Host = ""
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.Register(router)

	go sweepMagicLinks(ctx, store, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("llm_provider", cfg.LLMProvider))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newNameService(ctx context.Context, cfg *config.Config) (names.Service, error) {
	switch cfg.LLMProvider {
	case config.ProviderHTTP:
		return llm.NewClient(cfg.LLMBaseURL, cfg.LLMTimeout), nil
	default:
		return llm.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}

// sweepMagicLinks deletes expired links once an hour.
func sweepMagicLinks(ctx context.Context, store *storage.Store, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.DeleteExpiredMagicLinks(ctx, now)
			if err != nil {
				logger.Warn("magic link sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("expired magic links removed", zap.Int64("count", n))
			}
		}
	}
}
