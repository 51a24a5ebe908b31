/**
* Name: 			handler.go
* Description: 		Gin HTTP 핸들러 공통 의존성과 라우팅
 */
package handler

import (
	"net/http"
	"time"

	"NameMyChild/internal/auth"
	"NameMyChild/internal/llm"
	"NameMyChild/internal/middleware"
	"NameMyChild/internal/names"
	"NameMyChild/internal/notify"
	"NameMyChild/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error" example:"Invalid request"`
}

type SuccessResponse struct {
	Message string `json:"message" example:"User created successfully"`
}

type Handler struct {
	store     *storage.Store
	tokens    *auth.TokenManager
	hub       *notify.Hub
	names     names.Service
	tts       llm.Synthesizer
	mailer    Mailer
	publicURL string
	linkTTL   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

type Options struct {
	Store     *storage.Store
	Tokens    *auth.TokenManager
	Hub       *notify.Hub
	Names     names.Service
	TTS       llm.Synthesizer // nil disables /api/pronounce
	Mailer    Mailer          // nil logs magic links
	PublicURL string
	LinkTTL   time.Duration
	Logger    *zap.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mailer := opts.Mailer
	if mailer == nil {
		mailer = LogMailer{Logger: logger}
	}
	linkTTL := opts.LinkTTL
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	hub := opts.Hub
	if hub == nil {
		hub = notify.NewHub()
	}
	return &Handler{
		store:     opts.Store,
		tokens:    opts.Tokens,
		hub:       hub,
		names:     opts.Names,
		tts:       opts.TTS,
		mailer:    mailer,
		publicURL: opts.PublicURL,
		linkTTL:   linkTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Register mounts every route on router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/healthz", h.Health)

	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/magic-link", h.RequestMagicLink)
		authGroup.GET("/verify", h.VerifyMagicLink)
		authGroup.POST("/signout", h.requireAuth(), h.SignOut)
	}

	protected := router.Group("/api").Use(h.requireAuth())
	{
		protected.GET("/profile", h.Profile)
		protected.GET("/getSavedNames", h.GetSavedNames)
		protected.POST("/saveName", h.SaveName)
		protected.POST("/generateNames", h.GenerateNames)
		protected.GET("/pronounce/:name", h.Pronounce)
	}

	router.GET("/ws/session", h.HandleSessionEvents)
}

func (h *Handler) requireAuth() gin.HandlerFunc {
	return middleware.AuthMiddleware(h.tokens, h.store, h.logger)
}

// Health godoc
// @Summary      헬스 체크
// @Tags         System
// @Produce      json
// @Success      200 {object} handler.SuccessResponse
// @Failure      503 {object} handler.ErrorResponse
// @Router       /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
