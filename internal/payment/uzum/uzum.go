package uzum

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("uzum config invalid")
	ErrRequestFailed    = errors.New("uzum request failed")
	ErrRequestTimeout   = errors.New("uzum request timeout")
	ErrResponseInvalid  = errors.New("uzum response invalid")
	ErrSignatureInvalid = errors.New("uzum signature invalid")
)

// APIError Uzum 网关返回的业务错误
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("uzum gateway error %s: %s", e.Code, e.Message)
}

// Config Uzum 渠道配置
type Config struct {
	MerchantID string `json:"merchant_id"`
	SecretKey  string `json:"secret_key"`
	BaseURL    string `json:"base_url"`
	ReturnURL  string `json:"return_url"`
	TimeoutMS  int    `json:"timeout_ms"`
}

// CreateInput Uzum 下单输入
type CreateInput struct {
	OrderNo   string
	Amount    string
	Currency  string
	ReturnURL string
}

// CreateResult Uzum 下单结果
type CreateResult struct {
	PayURL  string
	TradeNo string
	Raw     map[string]interface{}
}

// RefundInput Uzum 退款输入
type RefundInput struct {
	TradeNo string
	OrderNo string
	Amount  string
	Reason  string
}

// RefundResult Uzum 退款结果
type RefundResult struct {
	RefundRef string
	Raw       map[string]interface{}
}

// ValidateConfig 校验 Uzum 配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return fmt.Errorf("%w: merchant_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	return nil
}

// CreatePayment 创建 Uzum 支付
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.OrderNo == "" || input.Amount == "" {
		return nil, ErrConfigInvalid
	}
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = "UZS"
	}
	returnURL := strings.TrimSpace(input.ReturnURL)
	if returnURL == "" {
		returnURL = cfg.ReturnURL
	}

	payload := map[string]string{
		"merchantId": cfg.MerchantID,
		"amount":     input.Amount,
		"orderId":    input.OrderNo,
		"currency":   currency,
		"returnUrl":  returnURL,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	payload["signature"] = signHMAC(cfg.SecretKey, buildSignContent(payload))

	respBytes, err := postJSON(ctx, cfg, buildEndpoint(cfg.BaseURL, "/payment/create"), payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Data    struct {
			PaymentURL string `json:"paymentUrl"`
			PaymentID  string `json:"paymentId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if !resp.Success {
		code := strings.TrimSpace(resp.Code)
		if code == "" {
			code = "unknown"
		}
		return nil, &APIError{
			Code:    code,
			Message: resp.Message,
		}
	}
	if resp.Data.PaymentURL == "" {
		return nil, ErrResponseInvalid
	}
	return &CreateResult{
		PayURL:  strings.TrimSpace(resp.Data.PaymentURL),
		TradeNo: strings.TrimSpace(resp.Data.PaymentID),
		Raw:     raw,
	}, nil
}

// VerifyCallback 验证 Uzum 回调签名。
// 签名对排序后的 k=v 列表（; 连接）做 HMAC-SHA256。
func VerifyCallback(cfg *Config, params map[string]string) error {
	if cfg == nil {
		return ErrConfigInvalid
	}
	sign := strings.TrimSpace(params["signature"])
	if sign == "" {
		return ErrSignatureInvalid
	}
	content := buildSignContent(params)
	expected := signHMAC(cfg.SecretKey, content)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sign))) {
		return ErrSignatureInvalid
	}
	return nil
}

// Refund 请求 Uzum 退款
func Refund(ctx context.Context, cfg *Config, input RefundInput) (*RefundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.TradeNo == "" || input.Amount == "" {
		return nil, ErrConfigInvalid
	}

	payload := map[string]string{
		"merchantId": cfg.MerchantID,
		"paymentId":  input.TradeNo,
		"orderId":    input.OrderNo,
		"amount":     input.Amount,
		"reason":     input.Reason,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	payload["signature"] = signHMAC(cfg.SecretKey, buildSignContent(payload))

	respBytes, err := postJSON(ctx, cfg, buildEndpoint(cfg.BaseURL, "/payment/refund"), payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Data    struct {
			RefundID string `json:"refundId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if !resp.Success {
		code := strings.TrimSpace(resp.Code)
		if code == "" {
			code = "unknown"
		}
		return nil, &APIError{
			Code:    code,
			Message: resp.Message,
		}
	}
	return &RefundResult{
		RefundRef: strings.TrimSpace(resp.Data.RefundID),
		Raw:       raw,
	}, nil
}

func buildEndpoint(baseURL, apiPath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "https://checkout.uzumbank.uz/api"
	}
	return base + apiPath
}

func buildSignContent(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return strings.Join(pairs, ";")
}

func postJSON(ctx context.Context, cfg *Config, endpoint string, payload map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrRequestFailed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, ErrRequestFailed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: resolveTimeout(cfg)}
	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrRequestTimeout
		}
		return nil, ErrRequestFailed
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrRequestFailed
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrRequestFailed
	}
	return respBody, nil
}

func resolveTimeout(cfg *Config) time.Duration {
	if cfg != nil && cfg.TimeoutMS > 0 {
		return time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return 10 * time.Second
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func signHMAC(key, content string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(content))
	return hex.EncodeToString(mac.Sum(nil))
}
