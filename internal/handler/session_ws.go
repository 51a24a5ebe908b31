package handler

import (
	"errors"
	"net/http"

	"NameMyChild/internal/auth"
	"NameMyChild/internal/notify"
	"NameMyChild/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleSessionEvents godoc
// @Summary      세션 이벤트 WebSocket
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.**
// @Description  `request_id`와 `code_verifier`로 접속하면 매직 링크 확인 시 SIGNED_IN 이벤트(토큰 포함)를 한 번 받습니다.
// @Description  `code_verifier`는 매직 링크 요청 때 보낸 `code_challenge`와 맞아야 합니다.
// @Description  `token`으로 접속하면 해당 세션이 로그아웃될 때 SIGNED_OUT 이벤트를 한 번 받습니다.
// @Description  이벤트를 보낸 뒤 서버가 연결을 닫습니다.
// @Tags         WebSocket (Session)
// @Param        request_id    query string false "매직 링크 요청 ID"
// @Param        code_verifier query string false "request_id와 함께 필수"
// @Param        token      query string false "JWT 토큰"
// @Success      101 {string} string "101 Switching Protocols"
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /ws/session [get]
func (h *Handler) HandleSessionEvents(c *gin.Context) {
	requestID := c.Query("request_id")
	tokenString := c.Query("token")

	var key string
	switch {
	case requestID != "":
		// 링크를 요청한 기기인지 확인
		challenge, err := h.store.MagicLinkChallenge(c.Request.Context(), requestID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown request"})
				return
			}
			h.logger.Error("HandleSessionEvents(): MagicLinkChallenge failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !auth.VerifyCodeChallenge(challenge, c.Query("code_verifier")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid code verifier"})
			return
		}
		key = notify.RequestKey(requestID)
	case tokenString != "":
		// 사용자 토큰 검증
		claims, err := h.tokens.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		active, err := h.store.IsSessionActive(c.Request.Context(), claims.ID)
		if err != nil || !active {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has been signed out"})
			return
		}
		key = notify.SessionKey(claims.ID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_id or token required"})
		return
	}

	// 업그레이드 전에 구독해야 확인 이벤트를 놓치지 않음
	events, cancel := h.hub.Subscribe(key)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cancel()
		h.logger.Warn("HandleSessionEvents(): upgrade failed", zap.Error(err))
		return
	}
	h.streamOne(conn, events, cancel)
}

// streamOne forwards the first event for the subscription and closes the
// connection. It also returns when the client disconnects first.
func (h *Handler) streamOne(conn *websocket.Conn, events <-chan notify.Event, cancel func()) {
	defer conn.Close()
	defer cancel()

	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case ev, ok := <-events:
		if !ok {
			return
		}
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Warn("streamOne(): write failed", zap.Error(err))
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ev.Type))
	case <-clientGone:
	}
}
