package payme

import "testing"

func TestVerifyCallback(t *testing.T) {
	cfg := &Config{MerchantID: "merchant-1", SecretKey: "top-secret"}
	params := map[string]string{
		"transaction_id": "payme-700",
		"order_id":       "YL20300107000000123456",
		"amount":         "150000.00",
		"state":          "2",
	}
	content := params["transaction_id"] + params["order_id"] + params["amount"] + params["state"]
	params["signature"] = signHMAC(cfg.SecretKey, content)

	if err := VerifyCallback(cfg, params); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	params["state"] = "1"
	if err := VerifyCallback(cfg, params); err != ErrSignatureInvalid {
		t.Fatalf("expected signature invalid for tampered state, got %v", err)
	}

	params["signature"] = ""
	if err := VerifyCallback(cfg, params); err != ErrSignatureInvalid {
		t.Fatalf("expected signature invalid for empty signature, got %v", err)
	}

	if err := VerifyCallback(nil, params); err != ErrConfigInvalid {
		t.Fatalf("expected config invalid for nil config, got %v", err)
	}
}

func TestAuthToken(t *testing.T) {
	cfg := &Config{MerchantID: "merchant-1", SecretKey: "top-secret"}
	// X-Auth 为 merchant_id:secret_key 的 base64
	if got := authToken(cfg); got != "bWVyY2hhbnQtMTp0b3Atc2VjcmV0" {
		t.Fatalf("unexpected auth token: %s", got)
	}
}

func TestAmountToTiyin(t *testing.T) {
	tiyin, err := amountToTiyin("150000.00")
	if err != nil {
		t.Fatalf("amount to tiyin failed: %v", err)
	}
	if tiyin != 15000000 {
		t.Fatalf("expected 15000000 tiyin, got %d", tiyin)
	}
	if _, err := amountToTiyin("not-a-number"); err == nil {
		t.Fatalf("expected error for invalid amount")
	}
}
