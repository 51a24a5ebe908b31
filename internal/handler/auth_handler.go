/**
* Name: 			auth_handler.go
* Description: 		인증 핸들러
* Workflow: 		매직 링크 요청/확인, 회원가입, 로그인, 로그아웃, 프로필 조회
 */
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"NameMyChild/internal/middleware"
	"NameMyChild/internal/models"
	"NameMyChild/internal/notify"
	"NameMyChild/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// /auth/magic-link 요청 바디
type MagicLinkRequest struct {
	Email string `json:"email" example:"parent@example.com"`
	// base64url(SHA-256(code_verifier)); the verifier never leaves the app
	CodeChallenge string `json:"code_challenge" example:"E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"`
}

type MagicLinkResponse struct {
	RequestID string `json:"request_id" example:"6f1c2b9e-6c0e-4c55-9b0c-0a1b2c3d4e5f"`
}

type VerifyResponse struct {
	Message string `json:"message" example:"Signed in. You can return to the app."`
	// Only set when no app was waiting on /ws/session for this request.
	Token string `json:"token,omitempty"`
}

// /signup, /login 요청 바디
type CredentialsRequest struct {
	Email    string `json:"email" example:"parent@example.com"`
	Password string `json:"password" example:"password123"`
}

type LoginSuccessResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type ProfileResponse struct {
	ID    int64  `json:"id" example:"1"`
	Email string `json:"email" example:"parent@example.com"`
}

// RequestMagicLink godoc
// @Summary      매직 링크 요청
// @Description  이메일로 일회용 로그인 링크를 보냅니다. 처음 보는 이메일이면 계정을 만듭니다.
// @Description  앱은 응답의 request_id와 code_verifier로 /ws/session에 접속해 로그인 완료를 기다립니다.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handler.MagicLinkRequest true "이메일"
// @Success      200 {object} handler.MagicLinkResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /auth/magic-link [post]
func (h *Handler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email cannot be empty"})
		return
	}
	// 요청한 기기만 토큰을 받을 수 있도록 challenge 필수
	if req.CodeChallenge == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code_challenge required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.EnsureUser(ctx, email); err != nil {
		h.logger.Error("RequestMagicLink(): EnsureUser failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	link := models.MagicLink{
		Token:         uuid.NewString(),
		RequestID:     uuid.NewString(),
		Email:         email,
		CodeChallenge: req.CodeChallenge,
		ExpiresAt:     h.now().Add(h.linkTTL),
	}
	if err := h.store.CreateMagicLink(ctx, link); err != nil {
		h.logger.Error("RequestMagicLink(): CreateMagicLink failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	verifyURL := strings.TrimRight(h.publicURL, "/") + "/auth/verify?token=" + url.QueryEscape(link.Token)
	if err := h.mailer.SendMagicLink(ctx, email, verifyURL); err != nil {
		h.logger.Error("RequestMagicLink(): SendMagicLink failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send magic link"})
		return
	}

	c.JSON(http.StatusOK, MagicLinkResponse{RequestID: link.RequestID})
}

// VerifyMagicLink godoc
// @Summary      매직 링크 확인
// @Description  링크를 한 번만 사용할 수 있습니다. 성공하면 대기 중인 앱에 SIGNED_IN 이벤트를 보냅니다.
// @Tags         Auth
// @Produce      json
// @Param        token query string true "링크 토큰"
// @Success      200 {object} handler.VerifyResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      410 {object} handler.ErrorResponse "만료되었거나 이미 사용된 링크"
// @Router       /auth/verify [get]
func (h *Handler) VerifyMagicLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	ctx := c.Request.Context()
	link, err := h.store.ConsumeMagicLink(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link"})
		case errors.Is(err, storage.ErrLinkExpired), errors.Is(err, storage.ErrLinkUsed):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		default:
			h.logger.Error("VerifyMagicLink(): ConsumeMagicLink failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	user, err := h.store.EnsureUser(ctx, link.Email)
	if err != nil {
		h.logger.Error("VerifyMagicLink(): EnsureUser failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	tokenString, ok := h.issueToken(c, user)
	if !ok {
		return
	}

	delivered := h.hub.Publish(notify.RequestKey(link.RequestID), notify.Event{
		Type:        notify.EventSignedIn,
		AccessToken: tokenString,
		User:        &user,
	})
	h.logger.Info("magic link verified", zap.Int64("user_id", user.ID), zap.Int("listeners", delivered))

	resp := VerifyResponse{Message: "Signed in. You can return to the app."}
	if delivered == 0 {
		resp.Token = tokenString
	}
	c.JSON(http.StatusOK, resp)
}

// Signup godoc
// @Summary      회원가입 (Signup)
// @Description  이메일과 비밀번호로 계정을 만듭니다.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handler.CredentialsRequest true "회원가입 요청 정보"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var credentials CredentialsRequest
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// " "으로 입력되는 케이스 방지
	email := strings.TrimSpace(credentials.Email)
	if email == "" || strings.TrimSpace(credentials.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and Password cannot be empty"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	if _, err := h.store.CreateUser(c.Request.Context(), email, string(hashedPassword)); err != nil {
		if errors.Is(err, storage.ErrUsernameExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		} else {
			h.logger.Error("Signup(): CreateUser failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user (database error)"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

// Login godoc
// @Summary      로그인 (Login)
// @Description  이메일과 비밀번호로 로그인하고 JWT 토큰을 발급받습니다.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handler.CredentialsRequest true "로그인 요청 정보"
// @Success      200 {object} handler.LoginSuccessResponse
// @Failure      400 {object} handler.ErrorResponse "잘못된 요청"
// @Failure      401 {object} handler.ErrorResponse "인증 실패 (자격 증명 오류)"
// @Failure      500 {object} handler.ErrorResponse "서버 내부 오류"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var credentials CredentialsRequest
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if credentials.Email == "" || credentials.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), strings.TrimSpace(credentials.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.logger.Error("Login(): GetUserByEmail failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// 매직 링크로만 가입한 계정은 비밀번호가 없음
	if user.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, ok := h.issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, LoginSuccessResponse{Token: tokenString})
}

// SignOut godoc
// @Summary      로그아웃
// @Description  현재 세션을 폐기하고, 같은 세션을 듣고 있는 앱에 SIGNED_OUT 이벤트를 보냅니다.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.SuccessResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /auth/signout [post]
func (h *Handler) SignOut(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	if err := h.store.RevokeSession(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("SignOut(): RevokeSession failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	h.hub.Publish(notify.SessionKey(sessionID), notify.Event{Type: notify.EventSignedOut})
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Profile godoc
// @Summary      프로필 조회 (Profile)
// @Description  현재 로그인한 사용자를 반환합니다. (JWT 필요)
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.ProfileResponse
// @Failure      401 {object} handler.ErrorResponse "인증 토큰 누락 또는 만료"
// @Router       /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.store.GetUserByID(c.Request.Context(), c.GetInt64(middleware.ContextUserID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		h.logger.Error("Profile(): GetUserByID failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{ID: user.ID, Email: user.Email})
}

// issueToken signs a token and records its session. On failure it has
// already written the response.
func (h *Handler) issueToken(c *gin.Context, user models.User) (string, bool) {
	tokenString, sessionID, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return "", false
	}
	if err := h.store.CreateSession(c.Request.Context(), sessionID, user.ID); err != nil {
		h.logger.Error("issueToken(): CreateSession failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return "", false
	}
	return tokenString, true
}
