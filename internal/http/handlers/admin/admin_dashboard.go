package admin

import (
	"time"

	"github.com/yurline/yurline/internal/http/response"

	"github.com/gin-gonic/gin"
)

func parseDashboardRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	startAt := now.AddDate(0, 0, -30)
	endAt := now
	if t := parseTimeQuery(c, "start_date"); t != nil {
		startAt = *t
	}
	if t := parseTimeQuery(c, "end_date"); t != nil {
		// 结束日期按当天末尾计
		endAt = t.AddDate(0, 0, 1)
	}
	return startAt, endAt
}

// GetDashboardOverview 获取仪表盘概览 (Admin)
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	startAt, endAt := parseDashboardRange(c)
	overview, err := h.DashboardService.Overview(startAt, endAt)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, overview)
}

// GetDashboardTrends 获取仪表盘趋势 (Admin)
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	startAt, endAt := parseDashboardRange(c)

	consultations, err := h.DashboardService.ConsultationTrends(startAt, endAt)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	revenue, err := h.DashboardService.RevenueTrends(startAt, endAt)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"consultations": consultations,
		"revenue":       revenue,
	})
}
