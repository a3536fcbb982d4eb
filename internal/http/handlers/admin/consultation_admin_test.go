package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/provider"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupConsultationAdminTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:consultation_admin_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Consultation{}, &models.ConsultationEvent{}, &models.Payment{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	consultationRepo := repository.NewConsultationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	availability := service.NewAvailabilityService(consultationRepo, 0, 24, []int{0, 1, 2, 3, 4, 5, 6}, 60, 0, 30)
	consultationSvc := service.NewConsultationService(consultationRepo, paymentRepo, userRepo, nil, availability, 10000, 1000000, "UZS")
	paymentSvc := service.NewPaymentService(paymentRepo, consultationRepo, userRepo, nil, consultationSvc,
		service.NewGatewayRegistry(), 10000, 1000000, 15)

	handler := New(&provider.Container{
		ConsultationRepo:    consultationRepo,
		PaymentRepo:         paymentRepo,
		ConsultationService: consultationSvc,
		PaymentService:      paymentSvc,
	})

	engine := gin.New()
	engine.POST("/consultations/:id/cancel", handler.CancelConsultation)
	return engine, db
}

func createAdminTestConsultation(t *testing.T, db *gorm.DB) *models.Consultation {
	t.Helper()

	user := &models.User{
		TelegramID: time.Now().UnixNano(),
		Username:   "client",
		FullName:   "Test Client",
		Language:   "ru",
		Status:     constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	consultation := &models.Consultation{
		UserID:      user.ID,
		Type:        constants.ConsultationTypeOnline,
		Status:      constants.ConsultationStatusPending,
		Amount:      models.NewMoneyFromInt(150000),
		Currency:    "UZS",
		PhoneNumber: "+998901234567",
	}
	if err := db.Create(consultation).Error; err != nil {
		t.Fatalf("create consultation failed: %v", err)
	}
	return consultation
}

func decodeAdminResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func TestCancelConsultationWithoutBody(t *testing.T) {
	engine, db := setupConsultationAdminTest(t)
	consultation := createAdminTestConsultation(t, db)

	// reason 可选，空请求体也应成功取消
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/consultations/%d/cancel", consultation.ID), nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	resp := decodeAdminResponse(t, w)
	if resp["status_code"] != float64(0) {
		t.Fatalf("unexpected business code: %+v", resp)
	}

	var current models.Consultation
	if err := db.First(&current, consultation.ID).Error; err != nil {
		t.Fatalf("load consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusCancelled {
		t.Fatalf("expected cancelled, got %s", current.Status)
	}
}

func TestCancelConsultationWithReason(t *testing.T) {
	engine, db := setupConsultationAdminTest(t)
	consultation := createAdminTestConsultation(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/consultations/%d/cancel", consultation.ID),
		strings.NewReader(`{"reason":"client asked to cancel"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	resp := decodeAdminResponse(t, w)
	if resp["status_code"] != float64(0) {
		t.Fatalf("unexpected business code: %+v", resp)
	}

	var current models.Consultation
	if err := db.First(&current, consultation.ID).Error; err != nil {
		t.Fatalf("load consultation failed: %v", err)
	}
	if current.CancellationReason != "client asked to cancel" {
		t.Fatalf("expected reason to be stored, got %q", current.CancellationReason)
	}
}

func TestCancelConsultationMalformedBody(t *testing.T) {
	engine, db := setupConsultationAdminTest(t)
	consultation := createAdminTestConsultation(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/consultations/%d/cancel", consultation.ID),
		strings.NewReader(`{"reason":`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	resp := decodeAdminResponse(t, w)
	if resp["status_code"] != float64(400) {
		t.Fatalf("expected bad request code, got %+v", resp)
	}

	var current models.Consultation
	if err := db.First(&current, consultation.ID).Error; err != nil {
		t.Fatalf("load consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusPending {
		t.Fatalf("expected pending to remain, got %s", current.Status)
	}
}
