package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 金额上限：1 千万
var maxAmount = decimal.NewFromInt(10000000)

// ValidateAmount 验证金额（必须为正数且不超过上限）
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than 0, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateMonthYear 验证月份和年份的取值范围
func ValidateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("year must be between 2000 and 2100, got %d", year)
	}
	return nil
}

// ValidateNote 验证备注长度（最多 200 字符）
func ValidateNote(note string) error {
	if len(note) > 200 {
		return fmt.Errorf("note cannot exceed 200 characters, got %d", len(note))
	}
	return nil
}
