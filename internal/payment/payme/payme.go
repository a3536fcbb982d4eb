package payme

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("payme config invalid")
	ErrRequestFailed    = errors.New("payme request failed")
	ErrRequestTimeout   = errors.New("payme request timeout")
	ErrResponseInvalid  = errors.New("payme response invalid")
	ErrSignatureInvalid = errors.New("payme signature invalid")
)

// APIError Payme 网关返回的业务错误
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payme gateway error %s: %s", e.Code, e.Message)
}

// Config Payme 渠道配置
type Config struct {
	MerchantID string `json:"merchant_id"`
	SecretKey  string `json:"secret_key"`
	BaseURL    string `json:"base_url"`
	ReturnURL  string `json:"return_url"`
	TimeoutMS  int    `json:"timeout_ms"`
}

// CreateInput Payme 下单输入
type CreateInput struct {
	OrderNo   string
	Amount    string // 苏姆金额，网关侧换算为 tiyin
	ReturnURL string
}

// CreateResult Payme 下单结果
type CreateResult struct {
	PayURL  string
	TradeNo string
	Raw     map[string]interface{}
}

// RefundInput Payme 退款输入
type RefundInput struct {
	TradeNo string
	Amount  string
	Reason  string
}

// RefundResult Payme 退款结果
type RefundResult struct {
	RefundRef string
	Raw       map[string]interface{}
}

// ValidateConfig 校验 Payme 配置完整性
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

// CreatePayment 通过 cards.create 创建 Payme 支付
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.OrderNo == "" || input.Amount == "" {
		return nil, ErrConfigInvalid
	}
	amountTiyin, err := amountToTiyin(input.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount", ErrConfigInvalid)
	}
	returnURL := strings.TrimSpace(input.ReturnURL)
	if returnURL == "" {
		returnURL = cfg.ReturnURL
	}

	payload := map[string]interface{}{
		"method": "cards.create",
		"params": map[string]interface{}{
			"amount": amountTiyin,
			"account": map[string]interface{}{
				"order_id": input.OrderNo,
			},
			"return_url": returnURL,
		},
	}

	respBytes, err := postJSON(ctx, cfg, payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Result struct {
			CardToken string `json:"card_token"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if resp.Error != nil {
		return nil, &APIError{
			Code:    fmt.Sprintf("%d", resp.Error.Code),
			Message: resp.Error.Message,
		}
	}
	token := strings.TrimSpace(resp.Result.CardToken)
	if token == "" {
		return nil, ErrResponseInvalid
	}
	return &CreateResult{
		PayURL:  "https://checkout.payme.uz/pay/" + token,
		TradeNo: token,
		Raw:     raw,
	}, nil
}

// VerifyCallback 验证 Payme 回调签名。
// 签名为 secret_key 对原始负载的 HMAC-SHA256。
func VerifyCallback(cfg *Config, params map[string]string) error {
	if cfg == nil {
		return ErrConfigInvalid
	}
	sign := strings.TrimSpace(params["signature"])
	if sign == "" {
		return ErrSignatureInvalid
	}
	content := params["transaction_id"] + params["order_id"] + params["amount"] + params["state"]
	expected := signHMAC(cfg.SecretKey, content)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sign))) {
		return ErrSignatureInvalid
	}
	return nil
}

// Refund 通过 receipts.cancel 请求 Payme 退款
func Refund(ctx context.Context, cfg *Config, input RefundInput) (*RefundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.TradeNo == "" {
		return nil, ErrConfigInvalid
	}

	payload := map[string]interface{}{
		"method": "receipts.cancel",
		"params": map[string]interface{}{
			"id":     input.TradeNo,
			"reason": input.Reason,
		},
	}

	respBytes, err := postJSON(ctx, cfg, payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Result struct {
			Receipt struct {
				ID string `json:"_id"`
			} `json:"receipt"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if resp.Error != nil {
		return nil, &APIError{
			Code:    fmt.Sprintf("%d", resp.Error.Code),
			Message: resp.Error.Message,
		}
	}
	refundRef := strings.TrimSpace(resp.Result.Receipt.ID)
	if refundRef == "" {
		refundRef = input.TradeNo
	}
	return &RefundResult{
		RefundRef: refundRef,
		Raw:       raw,
	}, nil
}

func authToken(cfg *Config) string {
	return base64.StdEncoding.EncodeToString([]byte(cfg.MerchantID + ":" + cfg.SecretKey))
}

func amountToTiyin(amount string) (int64, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, err
	}
	return value.Mul(decimal.NewFromInt(100)).IntPart(), nil
}

func postJSON(ctx context.Context, cfg *Config, payload map[string]interface{}) ([]byte, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if endpoint == "" {
		endpoint = "https://checkout.payme.uz/api"
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrRequestFailed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, ErrRequestFailed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth", authToken(cfg))

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
