package public

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentCallback 支付网关回调入口
func (h *Handler) PaymentCallback(c *gin.Context) {
	provider := strings.ToLower(strings.TrimSpace(c.Param("provider")))
	requestLog(c).Infow("payment_callback_received",
		"provider", provider,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
		"content_type", strings.TrimSpace(c.GetHeader("Content-Type")),
	)

	params, err := parseCallbackParams(c)
	if err != nil {
		requestLog(c).Warnw("payment_callback_parse_failed", "provider", provider, "error", err)
		respondCallbackAck(c, provider, err)
		return
	}

	payment, err := h.PaymentService.HandleCallback(service.PaymentCallbackInput{
		Provider: provider,
		Params:   params,
	})
	if err != nil {
		requestLog(c).Warnw("payment_callback_rejected",
			"provider", provider,
			"error", err,
		)
		respondCallbackAck(c, provider, err)
		return
	}

	requestLog(c).Infow("payment_callback_confirmed",
		"provider", provider,
		"payment_id", payment.ID,
		"consultation_id", payment.ConsultationID,
		"transaction_id", payment.TransactionID,
	)
	respondCallbackAck(c, provider, nil)
}

// parseCallbackParams 将表单或 JSON 回调统一为字符串键值对。
func parseCallbackParams(c *gin.Context) (map[string]string, error) {
	contentType := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Type")))
	if strings.Contains(contentType, "application/json") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, err
		}
		return flattenCallbackPayload(payload), nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	form := c.Request.Form
	if len(c.Request.PostForm) > 0 {
		form = c.Request.PostForm
	}
	params := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params, nil
}

func flattenCallbackPayload(payload map[string]interface{}) map[string]string {
	params := make(map[string]string, len(payload))
	for key, value := range payload {
		switch v := value.(type) {
		case string:
			params[key] = v
		case float64:
			params[key] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
		case bool:
			params[key] = fmt.Sprintf("%t", v)
		case nil:
			params[key] = ""
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				continue
			}
			params[key] = string(raw)
		}
	}
	return params
}

// respondCallbackAck 按网关约定的格式应答回调。
func respondCallbackAck(c *gin.Context, provider string, err error) {
	switch provider {
	case constants.PaymentProviderClick:
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"error": -1, "error_note": callbackErrorNote(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": 0, "error_note": "Success"})
	case constants.PaymentProviderPayme:
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"error": gin.H{"code": -31008, "message": callbackErrorNote(err)}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": gin.H{"state": 2}})
	default:
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "failed", "message": callbackErrorNote(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func callbackErrorNote(err error) string {
	switch {
	case errors.Is(err, service.ErrSignatureInvalid):
		return "invalid signature"
	case errors.Is(err, service.ErrPaymentNotFound):
		return "payment not found"
	case errors.Is(err, service.ErrPaymentStateInvalid):
		return "payment state invalid"
	case errors.Is(err, service.ErrPaymentAmountMismatch):
		return "amount mismatch"
	case errors.Is(err, service.ErrPaymentProviderUnknown):
		return "unknown provider"
	default:
		return "callback processing failed"
	}
}
