package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

func TestParseCallbackParamsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"merchant_trans_id":"YL1","amount":150000.50,"attempt":3,"success":true,"note":null}`
	c.Request = httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	params, err := parseCallbackParams(c)
	if err != nil {
		t.Fatalf("parse callback params failed: %v", err)
	}
	if params["merchant_trans_id"] != "YL1" {
		t.Fatalf("unexpected merchant_trans_id: %s", params["merchant_trans_id"])
	}
	if params["amount"] != "150000.5" {
		t.Fatalf("unexpected amount: %s", params["amount"])
	}
	if params["attempt"] != "3" {
		t.Fatalf("unexpected attempt: %s", params["attempt"])
	}
	if params["success"] != "true" {
		t.Fatalf("unexpected success: %s", params["success"])
	}
	if params["note"] != "" {
		t.Fatalf("unexpected note: %s", params["note"])
	}
}

func TestParseCallbackParamsForm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader("merchant_trans_id=YL1&amount=150000.00"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	params, err := parseCallbackParams(c)
	if err != nil {
		t.Fatalf("parse callback params failed: %v", err)
	}
	if params["merchant_trans_id"] != "YL1" || params["amount"] != "150000.00" {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestRespondCallbackAckClick(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondCallbackAck(c, constants.PaymentProviderClick, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["error"] != float64(0) || resp["error_note"] != "Success" {
		t.Fatalf("unexpected click ack: %+v", resp)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondCallbackAck(c, constants.PaymentProviderClick, service.ErrSignatureInvalid)

	// 校验失败也应答 200，由业务字段表达错误
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["error"] != float64(-1) || resp["error_note"] != "invalid signature" {
		t.Fatalf("unexpected click error ack: %+v", resp)
	}
}

func TestRespondCallbackAckPayme(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondCallbackAck(c, constants.PaymentProviderPayme, nil)

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	result, ok := resp["result"].(map[string]interface{})
	if !ok || result["state"] != float64(2) {
		t.Fatalf("unexpected payme ack: %+v", resp)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondCallbackAck(c, constants.PaymentProviderPayme, service.ErrPaymentNotFound)

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	errBody, ok := resp["error"].(map[string]interface{})
	if !ok || errBody["code"] != float64(-31008) {
		t.Fatalf("unexpected payme error ack: %+v", resp)
	}
}

func TestCallbackErrorNote(t *testing.T) {
	if got := callbackErrorNote(service.ErrPaymentAmountMismatch); got != "amount mismatch" {
		t.Fatalf("unexpected note: %s", got)
	}
	if got := callbackErrorNote(service.ErrConsultationNotFound); got != "callback processing failed" {
		t.Fatalf("unexpected fallback note: %s", got)
	}
}
