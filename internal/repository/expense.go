package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Alok-Vaishnav/TrackMint/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the referenced expense does not exist.
var ErrNotFound = errors.New("expense not found")

// ExpenseRepository 封装对支出记录的所有数据库访问，
// 查询一律按 owner 过滤，排序固定为时间倒序（同一天按 id 倒序保证稳定）。
type ExpenseRepository struct {
	DB *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

// FindByOwnerAndRange returns the owner's expenses with start <= date <= end,
// newest first. Both bounds are inclusive.
func (r *ExpenseRepository) FindByOwnerAndRange(ownerID uint, start, end time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", ownerID, start, end).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("find expenses by range: %w", err)
	}
	return expenses, nil
}

// FindByOwner returns all of the owner's expenses, newest first.
func (r *ExpenseRepository) FindByOwner(ownerID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.DB.
		Where("user_id = ?", ownerID).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	return expenses, nil
}

// Insert persists a new expense and fills in its assigned id.
func (r *ExpenseRepository) Insert(expense *models.Expense) error {
	if err := r.DB.Create(expense).Error; err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// FindByID looks up a single expense regardless of owner.
// Ownership checks belong to the caller.
func (r *ExpenseRepository) FindByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.DB.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return &expense, nil
}

// Update saves the full expense record.
func (r *ExpenseRepository) Update(expense *models.Expense) error {
	if err := r.DB.Save(expense).Error; err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// DeleteByID permanently removes an expense. Deleting an id that does not
// exist returns ErrNotFound, so a second delete of the same id fails.
func (r *ExpenseRepository) DeleteByID(id uint) error {
	res := r.DB.Delete(&models.Expense{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
