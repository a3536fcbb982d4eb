package click

import (
	"context"
	"net/url"
	"strings"
	"testing"
)

func testClickConfig() *Config {
	return &Config{
		MerchantID: "merchant-1",
		SecretKey:  "top-secret",
		ReturnURL:  "https://t.me/yurline_bot",
	}
}

func TestCreatePaymentBuildsSignedURL(t *testing.T) {
	result, err := CreatePayment(context.Background(), testClickConfig(), CreateInput{
		OrderNo: "YL20300107000000123456",
		Amount:  "150000.00",
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	parsed, err := url.Parse(result.PayURL)
	if err != nil {
		t.Fatalf("parse pay url failed: %v", err)
	}
	if !strings.HasPrefix(result.PayURL, "https://my.click.uz/services/pay?") {
		t.Fatalf("unexpected pay url: %s", result.PayURL)
	}
	query := parsed.Query()
	if query.Get("merchant_id") != "merchant-1" {
		t.Fatalf("unexpected merchant_id: %s", query.Get("merchant_id"))
	}
	if query.Get("transaction_param") != "YL20300107000000123456" {
		t.Fatalf("unexpected transaction_param: %s", query.Get("transaction_param"))
	}
	if query.Get("return_url") != "https://t.me/yurline_bot" {
		t.Fatalf("unexpected return_url: %s", query.Get("return_url"))
	}

	expected := signHMAC("top-secret", "merchant-1"+"150000.00"+"YL20300107000000123456"+query.Get("sign_time"))
	if query.Get("sign_string") != expected {
		t.Fatalf("signature mismatch: %s", query.Get("sign_string"))
	}
}

func TestCreatePaymentRequiresConfig(t *testing.T) {
	if _, err := CreatePayment(context.Background(), nil, CreateInput{OrderNo: "x", Amount: "1"}); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := CreatePayment(context.Background(), &Config{MerchantID: "m"}, CreateInput{OrderNo: "x", Amount: "1"}); err == nil {
		t.Fatalf("expected error for missing secret key")
	}
	if _, err := CreatePayment(context.Background(), testClickConfig(), CreateInput{}); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestVerifyCallback(t *testing.T) {
	cfg := testClickConfig()
	params := map[string]string{
		"click_trans_id":    "click-900",
		"merchant_trans_id": "YL20300107000000123456",
		"amount":            "150000.00",
		"sign_time":         "1767139200",
	}
	content := params["click_trans_id"] + cfg.SecretKey + params["merchant_trans_id"] + params["amount"] + params["sign_time"]
	params["sign_string"] = signHMAC(cfg.SecretKey, content)

	if err := VerifyCallback(cfg, params); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	params["amount"] = "1.00"
	if err := VerifyCallback(cfg, params); err != ErrSignatureInvalid {
		t.Fatalf("expected signature invalid for tampered amount, got %v", err)
	}

	delete(params, "sign_string")
	if err := VerifyCallback(cfg, params); err != ErrSignatureInvalid {
		t.Fatalf("expected signature invalid for missing signature, got %v", err)
	}
}
