package handler

import (
	"net/http"
	"strconv"

	"github.com/Alok-Vaishnav/TrackMint/internal/service"
	"github.com/Alok-Vaishnav/TrackMint/internal/util"

	"github.com/gin-gonic/gin"
)

// InsightsHandler 负责月度洞察接口
type InsightsHandler struct {
	Service *service.InsightsService
}

func NewInsightsHandler(svc *service.InsightsService) *InsightsHandler {
	return &InsightsHandler{Service: svc}
}

// GetMonthlySummary 返回指定月份的汇总报告：
// 总额、分类明细、与上月的对比、当月最高分类。
// GET /api/expenses/insights/monthly?month=&year=
func (h *InsightsHandler) GetMonthlySummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	monthStr := c.Query("month")
	yearStr := c.Query("year")
	if monthStr == "" || yearStr == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Month and year parameters are required")
		return
	}

	month, merr := strconv.Atoi(monthStr)
	year, yerr := strconv.Atoi(yearStr)
	if merr != nil || yerr != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Month and year must be numbers")
		return
	}
	if err := util.ValidateMonthYear(month, year); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	report, err := h.Service.MonthlyReport(user.ID, month, year)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to build monthly summary")
		return
	}

	util.Success(c, util.Response{
		"selectedMonth":           report.SelectedMonth,
		"previousMonth":           report.PreviousMonth,
		"highestSpendingCategory": report.HighestSpendingCategory,
		"monthComparisons":        report.MonthComparisons,
	})
}
