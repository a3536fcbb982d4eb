package service

import (
	"context"
	"testing"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
)

func createCallbackTestPayment(t *testing.T, env *paymentTestEnv) (*models.Consultation, *models.Payment) {
	t.Helper()

	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	return consultation, payment
}

func TestHandleCallbackCompletesPaymentAndConsultation(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation, payment := createCallbackTestPayment(t, env)

	result, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{
		Provider: constants.PaymentProviderClick,
		Params: map[string]string{
			"merchant_trans_id": payment.TransactionID,
			"click_trans_id":    "click-900",
			"amount":            payment.Amount.String(),
			"sign_string":       "irrelevant-for-fake-gateway",
		},
	})
	if err != nil {
		t.Fatalf("handle callback failed: %v", err)
	}
	if result.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected completed, got %s", result.Status)
	}
	if result.ProviderRef != "click-900" {
		t.Fatalf("expected provider ref click-900, got %s", result.ProviderRef)
	}
	if result.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	current, err := repository.NewConsultationRepository(env.db).GetByID(consultation.ID)
	if err != nil {
		t.Fatalf("get consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusPaid {
		t.Fatalf("expected consultation paid, got %s", current.Status)
	}
}

func TestHandleCallbackIsIdempotent(t *testing.T) {
	env := setupPaymentServiceTest(t)
	_, payment := createCallbackTestPayment(t, env)

	params := map[string]string{
		"merchant_trans_id": payment.TransactionID,
		"amount":            payment.Amount.String(),
	}
	first, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{Provider: constants.PaymentProviderClick, Params: params})
	if err != nil {
		t.Fatalf("first callback failed: %v", err)
	}
	second, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{Provider: constants.PaymentProviderClick, Params: params})
	if err != nil {
		t.Fatalf("repeated callback failed: %v", err)
	}
	if first.ID != second.ID || second.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected idempotent completed result, got %+v", second)
	}
}

func TestHandleCallbackRejectsBadSignature(t *testing.T) {
	env := setupPaymentServiceTest(t)
	_, payment := createCallbackTestPayment(t, env)
	env.gateway.verifyErr = ErrSignatureInvalid

	_, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{
		Provider: constants.PaymentProviderClick,
		Params: map[string]string{
			"merchant_trans_id": payment.TransactionID,
			"amount":            payment.Amount.String(),
		},
	})
	if err != ErrSignatureInvalid {
		t.Fatalf("expected signature invalid, got %v", err)
	}

	current, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if current.Status != constants.PaymentStatusPending {
		t.Fatalf("expected payment to stay pending, got %s", current.Status)
	}
}

func TestHandleCallbackRejectsAmountMismatch(t *testing.T) {
	env := setupPaymentServiceTest(t)
	_, payment := createCallbackTestPayment(t, env)

	_, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{
		Provider: constants.PaymentProviderClick,
		Params: map[string]string{
			"merchant_trans_id": payment.TransactionID,
			"amount":            "1.00",
		},
	})
	if err != ErrPaymentAmountMismatch {
		t.Fatalf("expected amount mismatch, got %v", err)
	}

	current, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if current.Status != constants.PaymentStatusPending {
		t.Fatalf("expected payment to stay pending, got %s", current.Status)
	}
}

func TestHandleCallbackUnknownOrder(t *testing.T) {
	env := setupPaymentServiceTest(t)
	createCallbackTestPayment(t, env)

	_, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{
		Provider: constants.PaymentProviderClick,
		Params: map[string]string{
			"merchant_trans_id": "YL00000000000000000000",
		},
	})
	if err != ErrPaymentNotFound {
		t.Fatalf("expected payment not found, got %v", err)
	}

	_, err = env.paymentSvc.HandleCallback(PaymentCallbackInput{
		Provider: constants.PaymentProviderClick,
		Params:   map[string]string{},
	})
	if err != ErrPaymentNotFound {
		t.Fatalf("expected payment not found for missing order no, got %v", err)
	}
}

func TestHandleCallbackUnknownProvider(t *testing.T) {
	env := setupPaymentServiceTest(t)

	_, err := env.paymentSvc.HandleCallback(PaymentCallbackInput{
		Provider: "stripe",
		Params:   map[string]string{"order_id": "YL1"},
	})
	if err != ErrPaymentProviderUnknown {
		t.Fatalf("expected unknown provider, got %v", err)
	}
}
