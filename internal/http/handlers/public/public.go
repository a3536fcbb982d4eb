package public

import (
	"time"

	"github.com/yurline/yurline/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetImageCaptcha 获取图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// GetAvailableDays 获取可预约日期列表
func (h *Handler) GetAvailableDays(c *gin.Context) {
	days := h.AvailabilityService.AvailableDays(time.Now())
	response.Success(c, gin.H{"days": days})
}

// GetDaySlots 获取某日可预约时段
func (h *Handler) GetDaySlots(c *gin.Context) {
	dateText := c.Query("date")
	date, err := time.ParseInLocation("2006-01-02", dateText, time.Local)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	slots, err := h.AvailabilityService.DaySlots(c.Request.Context(), date)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}
