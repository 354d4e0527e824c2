package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense 表示一笔支出记录
// 金额用 decimal 精确存储，避免浮点累加误差
type Expense struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index:idx_owner_date,priority:1;not null" json:"userId"` // owner, immutable after creation
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category  Category        `gorm:"size:16;not null;default:Other" json:"category"`
	Date      time.Time       `gorm:"index:idx_owner_date,priority:2;not null" json:"date"`
	Note      string          `gorm:"size:200" json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"-"`
}
