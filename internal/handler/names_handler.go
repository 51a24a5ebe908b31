/**
* Name: 			names_handler.go
* Description: 		이름 생성, 저장, 조회, 발음 핸들러
 */
package handler

import (
	"net/http"
	"strings"

	"NameMyChild/internal/middleware"
	"NameMyChild/internal/models"
	"NameMyChild/internal/names"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SaveNameRequest struct {
	Name string `json:"name" example:"Aurora"`
}

// GenerateRequest mirrors the request the client app sends: a full prompt and
// the expected response format.
type GenerateRequest struct {
	Prompt       string `json:"prompt" example:"Suggest 10 unique baby names for a girl..."`
	ResponseType string `json:"response_type" example:"json"`
}

type GenerateResponse struct {
	Names []string `json:"names"`
}

// GetSavedNames godoc
// @Summary      저장한 이름 목록
// @Description  사용자가 저장한 이름을 저장한 순서대로 반환합니다.
// @Tags         Names
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  models.SavedName
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Failure      500 {object} handler.ErrorResponse "DB 조회 실패"
// @Router       /api/getSavedNames [get]
func (h *Handler) GetSavedNames(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserID)

	saved, err := h.store.GetSavedNames(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("GetSavedNames(): query failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved names"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// SaveName godoc
// @Summary      이름 저장
// @Description  이름 하나를 목록 끝에 추가합니다. 중복 저장을 막지 않습니다.
// @Tags         Names
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.SaveNameRequest true "저장할 이름"
// @Success      200 {object} models.SavedName
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /api/saveName [post]
func (h *Handler) SaveName(c *gin.Context) {
	var req SaveNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
		return
	}

	userID := c.GetInt64(middleware.ContextUserID)
	saved, err := h.store.SaveName(c.Request.Context(), userID, name)
	if err != nil {
		h.logger.Error("SaveName(): insert failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save name"})
		return
	}
	c.JSON(http.StatusOK, models.SavedName{Name: saved.Name})
}

// GenerateNames godoc
// @Summary      이름 생성
// @Description  프롬프트를 LLM에 전달하고 {"names": [...]} 형식으로 결과를 돌려줍니다.
// @Tags         Names
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.GenerateRequest true "프롬프트"
// @Success      200 {object} handler.GenerateResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      502 {object} handler.ErrorResponse "LLM 호출 실패 또는 잘못된 응답"
// @Router       /api/generateNames [post]
func (h *Handler) GenerateNames(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt cannot be empty"})
		return
	}
	if req.ResponseType != "" && req.ResponseType != names.ResponseTypeJSON {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported response_type"})
		return
	}

	raw, err := h.names.Complete(c.Request.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("GenerateNames(): model call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate names"})
		return
	}
	suggestions, err := names.ParseNames(raw)
	if err != nil {
		h.logger.Warn("GenerateNames(): unparseable reply", zap.String("reply", raw), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Model returned an invalid reply"})
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{Names: suggestions})
}

// Pronounce godoc
// @Summary      이름 발음 듣기
// @Description  Google Cloud TTS로 이름을 MP3로 합성합니다. 자격 증명이 없으면 503.
// @Tags         Names
// @Produce      audio/mpeg
// @Security     BearerAuth
// @Param        name path string true "이름"
// @Success      200 {file}   file "MP3 오디오"
// @Failure      503 {object} handler.ErrorResponse "TTS 비활성화"
// @Router       /api/pronounce/{name} [get]
func (h *Handler) Pronounce(c *gin.Context) {
	if h.tts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pronunciation is not configured"})
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
		return
	}

	audio, err := h.tts.Synthesize(c.Request.Context(), name)
	if err != nil {
		h.logger.Error("Pronounce(): synthesis failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to synthesize audio"})
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
