package click

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
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("click config invalid")
	ErrRequestFailed    = errors.New("click request failed")
	ErrRequestTimeout   = errors.New("click request timeout")
	ErrResponseInvalid  = errors.New("click response invalid")
	ErrSignatureInvalid = errors.New("click signature invalid")
)

// APIError Click 网关返回的业务错误
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("click gateway error %s: %s", e.Code, e.Message)
}

// Config Click 渠道配置
type Config struct {
	MerchantID string `json:"merchant_id"`
	SecretKey  string `json:"secret_key"`
	BaseURL    string `json:"base_url"`
	ReturnURL  string `json:"return_url"`
	TimeoutMS  int    `json:"timeout_ms"`
}

// CreateInput Click 下单输入
type CreateInput struct {
	OrderNo   string
	Amount    string
	ReturnURL string
}

// CreateResult Click 下单结果
type CreateResult struct {
	PayURL  string
	TradeNo string
}

// RefundInput Click 退款输入
type RefundInput struct {
	TradeNo string
	OrderNo string
	Amount  string
	Reason  string
}

// RefundResult Click 退款结果
type RefundResult struct {
	RefundRef string
	Raw       map[string]interface{}
}

// ValidateConfig 校验 Click 配置完整性
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

// CreatePayment 生成 Click 支付链接。
// Click 的收银台链接在本地签名拼接，无需请求网关。
func CreatePayment(_ context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.OrderNo == "" || input.Amount == "" {
		return nil, ErrConfigInvalid
	}
	returnURL := strings.TrimSpace(input.ReturnURL)
	if returnURL == "" {
		returnURL = cfg.ReturnURL
	}

	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	signature := signHMAC(cfg.SecretKey, cfg.MerchantID+input.Amount+input.OrderNo+timestamp)

	values := url.Values{}
	values.Set("merchant_id", cfg.MerchantID)
	values.Set("amount", input.Amount)
	values.Set("transaction_param", input.OrderNo)
	if returnURL != "" {
		values.Set("return_url", returnURL)
	}
	values.Set("sign_time", timestamp)
	values.Set("sign_string", signature)

	return &CreateResult{
		PayURL: "https://my.click.uz/services/pay?" + values.Encode(),
	}, nil
}

// VerifyCallback 验证 Click 回调签名。
// 签名串为 click_trans_id + secret_key + merchant_trans_id + amount + sign_time。
func VerifyCallback(cfg *Config, params map[string]string) error {
	if cfg == nil {
		return ErrConfigInvalid
	}
	sign := strings.TrimSpace(params["sign_string"])
	if sign == "" {
		return ErrSignatureInvalid
	}
	content := params["click_trans_id"] + cfg.SecretKey + params["merchant_trans_id"] + params["amount"] + params["sign_time"]
	expected := signHMAC(cfg.SecretKey, content)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sign))) {
		return ErrSignatureInvalid
	}
	return nil
}

// Refund 请求 Click 冲正
func Refund(ctx context.Context, cfg *Config, input RefundInput) (*RefundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.TradeNo == "" || input.Amount == "" {
		return nil, ErrConfigInvalid
	}

	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	payload := map[string]interface{}{
		"merchant_id":       cfg.MerchantID,
		"click_trans_id":    input.TradeNo,
		"merchant_trans_id": input.OrderNo,
		"amount":            input.Amount,
		"reason":            input.Reason,
		"sign_time":         timestamp,
	}
	payload["sign_string"] = signHMAC(cfg.SecretKey, cfg.MerchantID+input.Amount+input.TradeNo+timestamp)

	respBytes, err := postJSON(ctx, cfg, buildEndpoint(cfg.BaseURL, "/payment/reversal"), payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		ErrorCode int    `json:"error_code"`
		ErrorNote string `json:"error_note"`
		RefundID  string `json:"refund_id"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if resp.ErrorCode != 0 {
		return nil, &APIError{
			Code:    strconv.Itoa(resp.ErrorCode),
			Message: resp.ErrorNote,
		}
	}
	return &RefundResult{
		RefundRef: strings.TrimSpace(resp.RefundID),
		Raw:       raw,
	}, nil
}

func buildEndpoint(baseURL, apiPath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "https://api.click.uz/v2"
	}
	return base + apiPath
}

func postJSON(ctx context.Context, cfg *Config, endpoint string, payload map[string]interface{}) ([]byte, error) {
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
