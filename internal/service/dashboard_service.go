package service

import (
	"time"

	"github.com/yurline/yurline/internal/repository"
)

// DashboardService 仪表盘服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	StartAt       time.Time              `json:"start_at"`
	EndAt         time.Time              `json:"end_at"`
	Consultations DashboardConsultations `json:"consultations"`
	Payments      DashboardPayments      `json:"payments"`
	NewUsers      int64                  `json:"new_users"`
	PendingQA     int64                  `json:"pending_questions"`
	Currency      string                 `json:"currency"`
}

// DashboardConsultations 咨询统计
type DashboardConsultations struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Paid      int64 `json:"paid"`
	Scheduled int64 `json:"scheduled"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// DashboardPayments 支付统计
type DashboardPayments struct {
	Total         int64   `json:"total"`
	Completed     int64   `json:"completed"`
	Failed        int64   `json:"failed"`
	RevenuePaid   float64 `json:"revenue_paid"`
	RefundedTotal float64 `json:"refunded_total"`
}

// Overview 获取统计总览
func (s *DashboardService) Overview(startAt, endAt time.Time) (*DashboardOverview, error) {
	if !endAt.After(startAt) {
		endAt = startAt.AddDate(0, 0, 30)
	}
	row, err := s.dashboardRepo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	currency := row.Currency
	if currency == "" {
		currency = "UZS"
	}
	return &DashboardOverview{
		StartAt: startAt,
		EndAt:   endAt,
		Consultations: DashboardConsultations{
			Total:     row.ConsultationsTotal,
			Pending:   row.PendingConsultations,
			Paid:      row.PaidConsultations,
			Scheduled: row.ScheduledConsultations,
			Completed: row.CompletedConsultations,
			Cancelled: row.CancelledConsultations,
		},
		Payments: DashboardPayments{
			Total:         row.PaymentsTotal,
			Completed:     row.PaymentsCompleted,
			Failed:        row.PaymentsFailed,
			RevenuePaid:   row.RevenuePaid,
			RefundedTotal: row.RefundedTotal,
		},
		NewUsers:  row.NewUsers,
		PendingQA: row.PendingQuestions,
		Currency:  currency,
	}, nil
}

// ConsultationTrends 咨询趋势
func (s *DashboardService) ConsultationTrends(startAt, endAt time.Time) ([]repository.DashboardConsultationTrendRow, error) {
	return s.dashboardRepo.GetConsultationTrends(startAt, endAt)
}

// RevenueTrends 收入趋势
func (s *DashboardService) RevenueTrends(startAt, endAt time.Time) ([]repository.DashboardRevenueTrendRow, error) {
	return s.dashboardRepo.GetRevenueTrends(startAt, endAt)
}
