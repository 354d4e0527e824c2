package service

import (
	"fmt"
	"time"

	"github.com/Alok-Vaishnav/TrackMint/internal/models"
	"github.com/Alok-Vaishnav/TrackMint/internal/util"

	"github.com/shopspring/decimal"
)

// ExpenseSource is the read side of the expense store the aggregator needs.
// *repository.ExpenseRepository satisfies it.
type ExpenseSource interface {
	FindByOwnerAndRange(ownerID uint, start, end time.Time) ([]models.Expense, error)
}

// Breakdown maps each category to its summed amount. Categories without
// expenses in the range are absent, not zero-valued.
type Breakdown map[models.Category]decimal.Decimal

// MonthSummary 选中月份的汇总：总额、分类明细和原始记录
type MonthSummary struct {
	Month             int              `json:"month"`
	Year              int              `json:"year"`
	Total             decimal.Decimal  `json:"total"`
	CategoryBreakdown Breakdown        `json:"categoryBreakdown"`
	Expenses          []models.Expense `json:"expenses"`
}

// PreviousSummary 上个月的对比基线，只保留总额和分类明细
type PreviousSummary struct {
	Total             decimal.Decimal `json:"total"`
	CategoryBreakdown Breakdown       `json:"categoryBreakdown"`
}

// TopCategory 当月花费最高的分类
type TopCategory struct {
	Category models.Category `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Comparison 单个分类的环比结果，type 为 increase 或 decrease
type Comparison struct {
	Category   models.Category `json:"category"`
	Message    string          `json:"message"`
	Difference decimal.Decimal `json:"difference"`
	Type       string          `json:"type"`
}

// MonthlyReport is recomputed from current expense state on every request,
// never persisted. The two month fetches are separate queries with no
// surrounding transaction, so a write landing between them can skew the
// comparison; acceptable for single-user reporting.
type MonthlyReport struct {
	SelectedMonth           MonthSummary    `json:"selectedMonth"`
	PreviousMonth           PreviousSummary `json:"previousMonth"`
	HighestSpendingCategory *TopCategory    `json:"highestSpendingCategory"`
	MonthComparisons        []Comparison    `json:"monthComparisons"`
}

// InsightsService computes monthly aggregates for a single owner.
type InsightsService struct {
	source ExpenseSource
}

func NewInsightsService(source ExpenseSource) *InsightsService {
	return &InsightsService{source: source}
}

// MonthRange 计算某个月的起止时间：
// 1 号 00:00:00 到最后一天 23:59:59，两端都包含。
func MonthRange(month, year int, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// previousMonth rolls January back to December of the prior year.
func previousMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// MonthlyReport builds the report for (ownerID, month, year): the selected
// month's total, category breakdown and raw expenses, the previous month's
// baseline, per-category comparisons and the highest spending category.
// Invalid month/year is rejected before any query runs.
func (s *InsightsService) MonthlyReport(ownerID uint, month, year int) (*MonthlyReport, error) {
	if err := util.ValidateMonthYear(month, year); err != nil {
		return nil, err
	}

	loc := time.Local
	selStart, selEnd := MonthRange(month, year, loc)
	prevMonth, prevYear := previousMonth(month, year)
	prevStart, prevEnd := MonthRange(prevMonth, prevYear, loc)

	selected, err := s.source.FindByOwnerAndRange(ownerID, selStart, selEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.source.FindByOwnerAndRange(ownerID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	selTotal, selBreakdown, selOrder := breakdown(selected)
	prevTotal, prevBreakdown, _ := breakdown(previous)

	// 环比只看当月出现过的分类；上月有、当月没有的分类不产生对比条目
	comparisons := make([]Comparison, 0, len(selOrder))
	for _, cat := range selOrder {
		prevAmount, ok := prevBreakdown[cat]
		if !ok {
			prevAmount = decimal.Zero
		}
		diff := selBreakdown[cat].Sub(prevAmount)
		switch {
		case diff.IsPositive():
			comparisons = append(comparisons, Comparison{
				Category:   cat,
				Message:    fmt.Sprintf("You spent ₹%s more on %s compared to last month", diff.StringFixed(2), cat),
				Difference: diff,
				Type:       "increase",
			})
		case diff.IsNegative():
			abs := diff.Abs()
			comparisons = append(comparisons, Comparison{
				Category:   cat,
				Message:    fmt.Sprintf("You spent ₹%s less on %s compared to last month", abs.StringFixed(2), cat),
				Difference: abs,
				Type:       "decrease",
			})
		}
	}

	return &MonthlyReport{
		SelectedMonth: MonthSummary{
			Month:             month,
			Year:              year,
			Total:             selTotal,
			CategoryBreakdown: selBreakdown,
			Expenses:          selected,
		},
		PreviousMonth: PreviousSummary{
			Total:             prevTotal,
			CategoryBreakdown: prevBreakdown,
		},
		HighestSpendingCategory: highest(selBreakdown, selOrder),
		MonthComparisons:        comparisons,
	}, nil
}

// breakdown sums amounts per category. order records each category in
// first-appearance order, since map iteration is not deterministic.
func breakdown(expenses []models.Expense) (total decimal.Decimal, byCategory Breakdown, order []models.Category) {
	total = decimal.Zero
	byCategory = make(Breakdown, len(expenses))
	for i := range expenses {
		e := &expenses[i]
		total = total.Add(e.Amount)
		if _, ok := byCategory[e.Category]; !ok {
			order = append(order, e.Category)
			byCategory[e.Category] = decimal.Zero
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}
	return total, byCategory, order
}

// highest returns the category with the largest sum, first-encountered
// winning ties, or nil when the month has no expenses.
func highest(byCategory Breakdown, order []models.Category) *TopCategory {
	if len(order) == 0 {
		return nil
	}
	top := TopCategory{Category: order[0], Amount: byCategory[order[0]]}
	for _, cat := range order[1:] {
		if byCategory[cat].GreaterThan(top.Amount) {
			top = TopCategory{Category: cat, Amount: byCategory[cat]}
		}
	}
	return &top
}
