package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetConsultationTrends(startAt, endAt time.Time) ([]DashboardConsultationTrendRow, error)
	GetRevenueTrends(startAt, endAt time.Time) ([]DashboardRevenueTrendRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	ConsultationsTotal     int64
	PendingConsultations   int64
	PaidConsultations      int64
	ScheduledConsultations int64
	CompletedConsultations int64
	CancelledConsultations int64
	RevenuePaid            float64
	RefundedTotal          float64
	PaymentsTotal          int64
	PaymentsCompleted      int64
	PaymentsFailed         int64
	NewUsers               int64
	PendingQuestions       int64
	Currency               string
}

// DashboardConsultationTrendRow 咨询趋势统计
type DashboardConsultationTrendRow struct {
	Day                string
	ConsultationsTotal int64
	ConsultationsPaid  int64
}

// DashboardRevenueTrendRow 收入趋势统计
type DashboardRevenueTrendRow struct {
	Day               string
	PaymentsCompleted int64
	PaymentsFailed    int64
	RevenuePaid       float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func paidConsultationStatuses() []string {
	return []string{
		constants.ConsultationStatusPaid,
		constants.ConsultationStatusScheduled,
		constants.ConsultationStatusCompleted,
	}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	consultationBase := func() *gorm.DB {
		return r.db.Model(&models.Consultation{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := consultationBase().Count(&result.ConsultationsTotal).Error; err != nil {
		return result, err
	}

	statusCounts := []struct {
		status string
		dest   *int64
	}{
		{constants.ConsultationStatusPending, &result.PendingConsultations},
		{constants.ConsultationStatusPaid, &result.PaidConsultations},
		{constants.ConsultationStatusScheduled, &result.ScheduledConsultations},
		{constants.ConsultationStatusCompleted, &result.CompletedConsultations},
		{constants.ConsultationStatusCancelled, &result.CancelledConsultations},
	}
	for _, item := range statusCounts {
		if err := consultationBase().Where("status = ?", item.status).Count(item.dest).Error; err != nil {
			return result, err
		}
	}

	if err := r.db.Model(&models.Consultation{}).
		Where("paid_at IS NOT NULL AND paid_at >= ? AND paid_at < ? AND status IN ?", startAt, endAt, paidConsultationStatuses()).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result.RevenuePaid).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Payment{}).
		Where("refunded_at IS NOT NULL AND refunded_at >= ? AND refunded_at < ?", startAt, endAt).
		Select("COALESCE(SUM(refund_amount), 0)").
		Scan(&result.RefundedTotal).Error; err != nil {
		return result, err
	}

	paymentBase := func() *gorm.DB {
		return r.db.Model(&models.Payment{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	if err := paymentBase().Count(&result.PaymentsTotal).Error; err != nil {
		return result, err
	}
	if err := paymentBase().Where("status = ?", constants.PaymentStatusCompleted).Count(&result.PaymentsCompleted).Error; err != nil {
		return result, err
	}
	if err := paymentBase().Where("status = ?", constants.PaymentStatusFailed).Count(&result.PaymentsFailed).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Question{}).
		Where("status = ?", constants.QuestionStatusPending).
		Count(&result.PendingQuestions).Error; err != nil {
		return result, err
	}

	_ = r.db.Model(&models.Consultation{}).
		Where("created_at >= ? AND created_at < ? AND currency <> ''", startAt, endAt).
		Order("id DESC").
		Limit(1).
		Pluck("currency", &result.Currency).Error

	return result, nil
}

// GetConsultationTrends 获取咨询趋势
func (r *GormDashboardRepository) GetConsultationTrends(startAt, endAt time.Time) ([]DashboardConsultationTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type paidRow struct {
		Day  string
		Paid int64
	}

	var totals []totalRow
	dayExpr := "CAST(date(created_at) AS TEXT)"
	if err := r.db.Model(&models.Consultation{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var paids []paidRow
	if err := r.db.Model(&models.Consultation{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as paid", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND status IN ?", startAt, endAt, paidConsultationStatuses()).
		Group(dayExpr).
		Order("day asc").
		Scan(&paids).Error; err != nil {
		return nil, err
	}

	paidMap := make(map[string]int64, len(paids))
	for _, item := range paids {
		paidMap[item.Day] = item.Paid
	}

	result := make([]DashboardConsultationTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardConsultationTrendRow{
			Day:                item.Day,
			ConsultationsTotal: item.Total,
			ConsultationsPaid:  paidMap[item.Day],
		})
	}
	return result, nil
}

// GetRevenueTrends 获取收入趋势
func (r *GormDashboardRepository) GetRevenueTrends(startAt, endAt time.Time) ([]DashboardRevenueTrendRow, error) {
	type statusRow struct {
		Day   string
		Count int64
	}
	type amountRow struct {
		Day    string
		Amount float64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"
	paymentBase := func() *gorm.DB {
		return r.db.Model(&models.Payment{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	var completed []statusRow
	if err := paymentBase().
		Select(fmt.Sprintf("%s as day, COUNT(*) as count", dayExpr)).
		Where("status = ?", constants.PaymentStatusCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&completed).Error; err != nil {
		return nil, err
	}

	var failed []statusRow
	if err := paymentBase().
		Select(fmt.Sprintf("%s as day, COUNT(*) as count", dayExpr)).
		Where("status = ?", constants.PaymentStatusFailed).
		Group(dayExpr).
		Order("day asc").
		Scan(&failed).Error; err != nil {
		return nil, err
	}

	var amounts []amountRow
	if err := paymentBase().
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(amount), 0) as amount", dayExpr)).
		Where("status = ?", constants.PaymentStatusCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&amounts).Error; err != nil {
		return nil, err
	}

	failedMap := make(map[string]int64, len(failed))
	for _, item := range failed {
		failedMap[item.Day] = item.Count
	}
	amountMap := make(map[string]float64, len(amounts))
	for _, item := range amounts {
		amountMap[item.Day] = item.Amount
	}

	days := make([]string, 0, len(completed)+len(failed))
	seen := make(map[string]bool, len(completed)+len(failed))
	for _, item := range completed {
		if !seen[item.Day] {
			seen[item.Day] = true
			days = append(days, item.Day)
		}
	}
	for _, item := range failed {
		if !seen[item.Day] {
			seen[item.Day] = true
			days = append(days, item.Day)
		}
	}

	sort.Strings(days)

	completedMap := make(map[string]int64, len(completed))
	for _, item := range completed {
		completedMap[item.Day] = item.Count
	}

	result := make([]DashboardRevenueTrendRow, 0, len(days))
	for _, day := range days {
		result = append(result, DashboardRevenueTrendRow{
			Day:               day,
			PaymentsCompleted: completedMap[day],
			PaymentsFailed:    failedMap[day],
			RevenuePaid:       amountMap[day],
		})
	}
	return result, nil
}
