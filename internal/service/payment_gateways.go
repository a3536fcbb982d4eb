package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/payment/click"
	"github.com/yurline/yurline/internal/payment/payme"
	"github.com/yurline/yurline/internal/payment/uzum"
)

// GatewayCreateResult 网关下单结果
type GatewayCreateResult struct {
	PayURL  string
	TradeNo string
}

// GatewayRefundResult 网关退款结果
type GatewayRefundResult struct {
	RefundRef string
}

// GatewayCreateInput 网关下单输入
type GatewayCreateInput struct {
	OrderNo   string
	Amount    string
	Currency  string
	ReturnURL string
}

// GatewayRefundInput 网关退款输入
type GatewayRefundInput struct {
	TradeNo string
	OrderNo string
	Amount  string
	Reason  string
}

// PaymentGateway 支付网关抽象，便于按渠道扩展与测试替身
type PaymentGateway interface {
	Name() string
	CreatePayment(ctx context.Context, input GatewayCreateInput) (*GatewayCreateResult, error)
	Refund(ctx context.Context, input GatewayRefundInput) (*GatewayRefundResult, error)
	VerifyCallback(params map[string]string) error
}

// clickGateway Click 渠道
type clickGateway struct {
	cfg *click.Config
}

// NewClickGateway 创建 Click 网关
func NewClickGateway(cfg *click.Config) PaymentGateway {
	return &clickGateway{cfg: cfg}
}

func (g *clickGateway) Name() string { return constants.PaymentProviderClick }

func (g *clickGateway) CreatePayment(ctx context.Context, input GatewayCreateInput) (*GatewayCreateResult, error) {
	result, err := click.CreatePayment(ctx, g.cfg, click.CreateInput{
		OrderNo:   input.OrderNo,
		Amount:    input.Amount,
		ReturnURL: input.ReturnURL,
	})
	if err != nil {
		return nil, mapClickError(err)
	}
	return &GatewayCreateResult{PayURL: result.PayURL, TradeNo: result.TradeNo}, nil
}

func (g *clickGateway) Refund(ctx context.Context, input GatewayRefundInput) (*GatewayRefundResult, error) {
	result, err := click.Refund(ctx, g.cfg, click.RefundInput{
		TradeNo: input.TradeNo,
		OrderNo: input.OrderNo,
		Amount:  input.Amount,
		Reason:  input.Reason,
	})
	if err != nil {
		return nil, mapClickError(err)
	}
	return &GatewayRefundResult{RefundRef: result.RefundRef}, nil
}

func (g *clickGateway) VerifyCallback(params map[string]string) error {
	if err := click.VerifyCallback(g.cfg, params); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}

func mapClickError(err error) error {
	var apiErr *click.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Provider: constants.PaymentProviderClick, Code: apiErr.Code, Message: apiErr.Message}
	}
	if errors.Is(err, click.ErrRequestTimeout) {
		return ErrGatewayTimeout
	}
	return err
}

// paymeGateway Payme 渠道
type paymeGateway struct {
	cfg *payme.Config
}

// NewPaymeGateway 创建 Payme 网关
func NewPaymeGateway(cfg *payme.Config) PaymentGateway {
	return &paymeGateway{cfg: cfg}
}

func (g *paymeGateway) Name() string { return constants.PaymentProviderPayme }

func (g *paymeGateway) CreatePayment(ctx context.Context, input GatewayCreateInput) (*GatewayCreateResult, error) {
	result, err := payme.CreatePayment(ctx, g.cfg, payme.CreateInput{
		OrderNo:   input.OrderNo,
		Amount:    input.Amount,
		ReturnURL: input.ReturnURL,
	})
	if err != nil {
		return nil, mapPaymeError(err)
	}
	return &GatewayCreateResult{PayURL: result.PayURL, TradeNo: result.TradeNo}, nil
}

func (g *paymeGateway) Refund(ctx context.Context, input GatewayRefundInput) (*GatewayRefundResult, error) {
	result, err := payme.Refund(ctx, g.cfg, payme.RefundInput{
		TradeNo: input.TradeNo,
		Amount:  input.Amount,
		Reason:  input.Reason,
	})
	if err != nil {
		return nil, mapPaymeError(err)
	}
	return &GatewayRefundResult{RefundRef: result.RefundRef}, nil
}

func (g *paymeGateway) VerifyCallback(params map[string]string) error {
	if err := payme.VerifyCallback(g.cfg, params); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}

func mapPaymeError(err error) error {
	var apiErr *payme.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Provider: constants.PaymentProviderPayme, Code: apiErr.Code, Message: apiErr.Message}
	}
	if errors.Is(err, payme.ErrRequestTimeout) {
		return ErrGatewayTimeout
	}
	return err
}

// uzumGateway Uzum 渠道
type uzumGateway struct {
	cfg *uzum.Config
}

// NewUzumGateway 创建 Uzum 网关
func NewUzumGateway(cfg *uzum.Config) PaymentGateway {
	return &uzumGateway{cfg: cfg}
}

func (g *uzumGateway) Name() string { return constants.PaymentProviderUzum }

func (g *uzumGateway) CreatePayment(ctx context.Context, input GatewayCreateInput) (*GatewayCreateResult, error) {
	result, err := uzum.CreatePayment(ctx, g.cfg, uzum.CreateInput{
		OrderNo:   input.OrderNo,
		Amount:    input.Amount,
		Currency:  input.Currency,
		ReturnURL: input.ReturnURL,
	})
	if err != nil {
		return nil, mapUzumError(err)
	}
	return &GatewayCreateResult{PayURL: result.PayURL, TradeNo: result.TradeNo}, nil
}

func (g *uzumGateway) Refund(ctx context.Context, input GatewayRefundInput) (*GatewayRefundResult, error) {
	result, err := uzum.Refund(ctx, g.cfg, uzum.RefundInput{
		TradeNo: input.TradeNo,
		OrderNo: input.OrderNo,
		Amount:  input.Amount,
		Reason:  input.Reason,
	})
	if err != nil {
		return nil, mapUzumError(err)
	}
	return &GatewayRefundResult{RefundRef: result.RefundRef}, nil
}

func (g *uzumGateway) VerifyCallback(params map[string]string) error {
	if err := uzum.VerifyCallback(g.cfg, params); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}

func mapUzumError(err error) error {
	var apiErr *uzum.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Provider: constants.PaymentProviderUzum, Code: apiErr.Code, Message: apiErr.Message}
	}
	if errors.Is(err, uzum.ErrRequestTimeout) {
		return ErrGatewayTimeout
	}
	return err
}

// GatewayRegistry 渠道注册表
type GatewayRegistry struct {
	gateways map[string]PaymentGateway
}

// NewGatewayRegistry 创建渠道注册表
func NewGatewayRegistry(gateways ...PaymentGateway) *GatewayRegistry {
	registry := &GatewayRegistry{gateways: make(map[string]PaymentGateway, len(gateways))}
	for _, gateway := range gateways {
		if gateway == nil {
			continue
		}
		registry.gateways[strings.ToLower(gateway.Name())] = gateway
	}
	return registry
}

// Resolve 按渠道名获取网关
func (r *GatewayRegistry) Resolve(provider string) (PaymentGateway, bool) {
	gateway, ok := r.gateways[strings.ToLower(strings.TrimSpace(provider))]
	return gateway, ok
}
