package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Alok-Vaishnav/TrackMint/internal/models"
	"github.com/Alok-Vaishnav/TrackMint/internal/repository"
	"github.com/Alok-Vaishnav/TrackMint/internal/service"
	"github.com/Alok-Vaishnav/TrackMint/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExpenseHandler 负责支出记录的增删改查接口
type ExpenseHandler struct {
	Repo *repository.ExpenseRepository
}

func NewExpenseHandler(repo *repository.ExpenseRepository) *ExpenseHandler {
	return &ExpenseHandler{Repo: repo}
}

// currentUser 从 context 取出 AuthMiddleware 放入的用户；
// 取不到时直接写 401 响应，调用方只需 return。
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not logged in")
		return nil, false
	}
	return user, true
}

// parseExpenseDate 支持几种常见的日期格式
func parseExpenseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,          // 2024-02-29T00:00:00+05:30
		"2006-01-02T15:04:05", // 2024-02-29T00:00:00
		"2006-01-02",          // 2024-02-29
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid expense id")
		return 0, false
	}
	return uint(id), true
}

// ---------- 记一笔 ----------

type createExpenseReq struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request body")
		return
	}

	if req.Amount.IsZero() || req.Category == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Amount and category are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Category must be one of Food, Travel, Rent, Other")
		return
	}
	if err := util.ValidateNote(req.Note); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// 日期默认为现在
	date := time.Now()
	if req.Date != "" {
		t, err := parseExpenseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date format")
			return
		}
		date = t
	}

	// ownerId 永远取自登录用户，不接受客户端指定
	expense := models.Expense{
		UserID:   user.ID,
		Amount:   req.Amount,
		Category: category,
		Date:     date,
		Note:     req.Note,
	}

	if err := h.Repo.Insert(&expense); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create expense")
		return
	}

	util.Success(c, util.Response{
		"message": "Expense created successfully",
		"expense": expense,
	})
}

// ---------- 修改 ----------

// updateExpenseReq 用指针区分「没传」和「传了空值」：
// nil 表示保留原值，显式传入的字段才会覆盖。
type updateExpenseReq struct {
	Amount   *decimal.Decimal `json:"amount"`
	Category *string          `json:"category"`
	Date     *string          `json:"date"`
	Note     *string          `json:"note"`
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request body")
		return
	}

	expense, err := h.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Expense not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load expense")
		}
		return
	}
	if expense.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Not authorized to update this expense")
		return
	}

	if req.Amount != nil {
		// 显式传入的金额必须有效，传 0 是错误而不是忽略
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		category, ok := models.ParseCategory(*req.Category)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Category must be one of Food, Travel, Rent, Other")
			return
		}
		expense.Category = category
	}
	if req.Date != nil {
		t, err := parseExpenseDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date format")
			return
		}
		expense.Date = t
	}
	if req.Note != nil {
		// 显式传空字符串表示清空备注
		if err := util.ValidateNote(*req.Note); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		expense.Note = *req.Note
	}

	if err := h.Repo.Update(expense); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update expense")
		return
	}

	util.Success(c, util.Response{
		"message": "Expense updated successfully",
		"expense": expense,
	})
}

// ---------- 删除 ----------

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	expense, err := h.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Expense not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load expense")
		}
		return
	}
	if expense.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Not authorized to delete this expense")
		return
	}

	if err := h.Repo.DeleteByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Expense not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete expense")
		}
		return
	}

	util.Success(c, util.Response{
		"message": "Expense deleted successfully",
	})
}

// ---------- 列表 ----------

// ListExpenses 返回当前用户的支出列表，时间倒序；
// month 和 year 都传时按该月过滤，否则返回全部。
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	monthStr := c.Query("month")
	yearStr := c.Query("year")

	// 传了哪个参数就校验哪个，哪怕另一个缺失
	month, year := 0, 0
	if monthStr != "" {
		m, merr := strconv.Atoi(monthStr)
		if merr != nil || m < 1 || m > 12 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Month must be between 1 and 12")
			return
		}
		month = m
	}
	if yearStr != "" {
		y, yerr := strconv.Atoi(yearStr)
		if yerr != nil || y < 2000 || y > 2100 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Year must be between 2000 and 2100")
			return
		}
		year = y
	}

	var (
		expenses []models.Expense
		err      error
	)

	// 两个都传才按月过滤，只传一个时返回全部
	if month != 0 && year != 0 {
		start, end := service.MonthRange(month, year, time.Local)
		expenses, err = h.Repo.FindByOwnerAndRange(user.ID, start, end)
	} else {
		expenses, err = h.Repo.FindByOwner(user.ID)
	}

	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load expenses")
		return
	}

	util.Success(c, util.Response{
		"expenses": expenses,
	})
}
