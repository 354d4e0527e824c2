package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Alok-Vaishnav/TrackMint/internal/config"
	"github.com/Alok-Vaishnav/TrackMint/internal/database"
	"github.com/Alok-Vaishnav/TrackMint/internal/models"
	"github.com/Alok-Vaishnav/TrackMint/internal/repository"
	"github.com/Alok-Vaishnav/TrackMint/internal/router"
	"github.com/Alok-Vaishnav/TrackMint/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	repo   *repository.ExpenseRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: testSecret, Issuer: "trackmint-test", ExpireHours: 1},
	}
	return &testEnv{
		router: router.SetupRouter(cfg, db),
		db:     db,
		repo:   repository.NewExpenseRepository(db),
	}
}

// newUser creates a user directly in the store and returns a valid token.
func (env *testEnv) newUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Email: email, PasswordHash: string(hash)}
	require.NoError(t, env.db.Create(user).Error)

	token, err := util.GenerateToken(testSecret, "trackmint-test", user.ID, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Code int                    `json:"code"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func (env *testEnv) seed(t *testing.T, userID uint, category models.Category, amount string, date time.Time) *models.Expense {
	t.Helper()
	e := &models.Expense{
		UserID:   userID,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}
	require.NoError(t, env.repo.Insert(e))
	return e
}

// ---------- create ----------

func TestCreateExpense(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "a@example.com")

	w := env.do(t, http.MethodPost, "/api/expenses", token, gin.H{
		"amount":   120.50,
		"category": "Food",
		"date":     "2024-05-10",
		"note":     "lunch",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	expense := data["expense"].(map[string]interface{})
	assert.NotZero(t, expense["id"])
	assert.Equal(t, "Food", expense["category"])
}

func TestCreateExpenseRejectsBadAmounts(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "a@example.com")

	cases := []struct {
		name   string
		amount interface{}
		status int
	}{
		{"zero", 0, http.StatusBadRequest},
		{"negative", -5, http.StatusBadRequest},
		{"one paisa", 0.01, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/expenses", token, gin.H{
				"amount":   tc.amount,
				"category": "Food",
			})
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestCreateExpenseRequiresCategory(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "a@example.com")

	w := env.do(t, http.MethodPost, "/api/expenses", token, gin.H{"amount": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/expenses", token, gin.H{
		"amount":   10,
		"category": "Gadgets", // not in the closed set
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateExpenseIgnoresClientOwner(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "a@example.com")

	w := env.do(t, http.MethodPost, "/api/expenses", token, gin.H{
		"amount":   10,
		"category": "Other",
		"userId":   9999,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	expense := data["expense"].(map[string]interface{})
	assert.Equal(t, float64(user.ID), expense["userId"])
}

func TestCreateExpenseRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/expenses", "", gin.H{"amount": 10, "category": "Food"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ---------- update ----------

func TestUpdateExpensePartialFields(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "a@example.com")
	e := env.seed(t, user.ID, models.CategoryFood, "100", time.Now())
	e.Note = "original"
	require.NoError(t, env.repo.Update(e))

	// only note supplied: amount and category stay untouched
	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/expenses/%d", e.ID), token, gin.H{
		"note": "changed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reloaded, err := env.repo.FindByID(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", reloaded.Note)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.CategoryFood, reloaded.Category)
}

func TestUpdateExpenseClearsNoteExplicitly(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "a@example.com")
	e := env.seed(t, user.ID, models.CategoryFood, "100", time.Now())
	e.Note = "to be cleared"
	require.NoError(t, env.repo.Update(e))

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/expenses/%d", e.ID), token, gin.H{
		"note": "",
	})
	require.Equal(t, http.StatusOK, w.Code)

	reloaded, err := env.repo.FindByID(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "", reloaded.Note)
}

func TestUpdateExpenseRejectsExplicitZeroAmount(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "a@example.com")
	e := env.seed(t, user.ID, models.CategoryFood, "100", time.Now())

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/expenses/%d", e.ID), token, gin.H{
		"amount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reloaded, err := env.repo.FindByID(e.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(100)))
}

func TestUpdateExpenseForbiddenForOtherUser(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.newUser(t, "owner@example.com")
	_, intruderToken := env.newUser(t, "intruder@example.com")
	e := env.seed(t, owner.ID, models.CategoryRent, "800", time.Now())

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/expenses/%d", e.ID), intruderToken, gin.H{
		"amount": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// record left unchanged
	reloaded, err := env.repo.FindByID(e.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(800)))
}

func TestUpdateExpenseNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "a@example.com")

	w := env.do(t, http.MethodPut, "/api/expenses/424242", token, gin.H{"amount": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---------- delete ----------

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "a@example.com")
	e := env.seed(t, user.ID, models.CategoryFood, "10", time.Now())

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", e.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// second delete of the same id fails, not succeeds
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", e.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteExpenseForbiddenForOtherUser(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.newUser(t, "owner@example.com")
	_, intruderToken := env.newUser(t, "intruder@example.com")
	e := env.seed(t, owner.ID, models.CategoryFood, "10", time.Now())

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", e.ID), intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteExpenseNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "a@example.com")

	w := env.do(t, http.MethodDelete, "/api/expenses/424242", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---------- list ----------

func TestListExpensesMonthFilter(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "a@example.com")
	env.seed(t, user.ID, models.CategoryFood, "10", time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local))
	env.seed(t, user.ID, models.CategoryFood, "20", time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local))

	w := env.do(t, http.MethodGet, "/api/expenses?month=5&year=2024", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Len(t, data["expenses"], 1)

	// no filter: full set
	w = env.do(t, http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Len(t, data["expenses"], 2)

	// only month supplied: filter ignored, full set
	w = env.do(t, http.MethodGet, "/api/expenses?month=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Len(t, data["expenses"], 2)
}

func TestListExpensesRejectsBadMonth(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "a@example.com")

	w := env.do(t, http.MethodGet, "/api/expenses?month=13&year=2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/expenses?month=5&year=1999", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// a single supplied parameter is still range-checked
	w = env.do(t, http.MethodGet, "/api/expenses?month=13", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/expenses?year=1999", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
