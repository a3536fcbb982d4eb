package public

import (
	"errors"
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterUserRequest 机器人用户注册请求
type RegisterUserRequest struct {
	TelegramID  int64  `json:"telegram_id" binding:"required"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Language    string `json:"language"`
}

// RegisterUser 注册或刷新 Telegram 用户
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserService.Register(service.RegisterInput{
		TelegramID:  req.TelegramID,
		Username:    req.Username,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Language:    req.Language,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}

// GetUserByTelegramID 按 Telegram ID 查询用户
func (h *Handler) GetUserByTelegramID(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil || telegramID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	user, err := h.UserService.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}

// resolveBotUser 根据请求里的 Telegram ID 解析用户。
func (h *Handler) resolveBotUser(c *gin.Context, telegramID int64) (uint, bool) {
	if telegramID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	user, err := h.UserService.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return 0, false
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return 0, false
	}
	return user.ID, true
}
