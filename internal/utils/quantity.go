package utils

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/backtest/commission_fee"
	"github.com/shopspring/decimal"
)

// TruncateQuantity rounds a quantity toward zero to the given number of decimal places.
func TruncateQuantity(quantity float64, precision int) float64 {
	if quantity <= 0 {
		return 0
	}

	return decimal.NewFromFloat(quantity).Truncate(int32(precision)).InexactFloat64()
}

// CalculateMaxQuantity returns the largest quantity, truncated to precision, whose
// cost plus buy commission fits inside budget.
func CalculateMaxQuantity(budget float64, price float64, fee commission_fee.CommissionFee, precision int) float64 {
	if budget <= 0 || price <= 0 {
		return 0
	}

	qty := TruncateQuantity(budget/price, precision)
	step := decimal.New(1, -int32(precision))

	for qty > 0 {
		cost := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).
			Add(decimal.NewFromFloat(fee.Calculate(commission_fee.SideBuy, qty, price)))
		if cost.LessThanOrEqual(decimal.NewFromFloat(budget)) {
			return qty
		}

		next := decimal.NewFromFloat(qty).Sub(step)
		if next.LessThanOrEqual(decimal.Zero) {
			return 0
		}

		qty = next.InexactFloat64()
	}

	return 0
}
