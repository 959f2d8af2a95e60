package geo

import (
	"errors"
	"math"
	"strings"

	"github.com/agamariel/parcerogo/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultDeliveryTime - время приготовления по умолчанию, минуты.
const DefaultDeliveryTime = 30

// ErrAmountOutOfRange - сумма не помещается в int64.
var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// EstimateETAMinutes возвращает ожидаемое время доставки:
// время заведения плюс две минуты на километр с округлением.
func EstimateETAMinutes(deliveryTime int64, distanceKm float64) int64 {
	if deliveryTime <= 0 {
		deliveryTime = DefaultDeliveryTime
	}
	extra := decimal.NewFromFloat(distanceKm).Mul(decimal.NewFromInt(2)).Round(0)
	return deliveryTime + extra.IntPart()
}

// ParseTip разбирает чаевые как целое число.
// Нечисловое, отрицательное и не помещающееся в int64 значение даёт 0,
// дробная часть отбрасывается.
func ParseTip(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return 0
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxAmount) {
		return 0
	}
	return d.IntPart()
}

// ClampTip ограничивает чаевые снизу нулём.
func ClampTip(tip int64) int64 {
	if tip < 0 {
		return 0
	}
	return tip
}

// LineSubtotal считает стоимость позиции.
func LineSubtotal(unitPrice, quantity int64) (int64, error) {
	return toAmount(decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(quantity)))
}

// OrderTotal считает сумму заказа: подытоги позиций плюс чаевые.
func OrderTotal(lines []models.OrderLine, tip int64) (int64, error) {
	total := decimal.NewFromInt(ClampTip(tip))
	for _, l := range lines {
		total = total.Add(decimal.NewFromInt(l.Subtotal))
	}
	return toAmount(total)
}

func toAmount(d decimal.Decimal) (int64, error) {
	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0, ErrAmountOutOfRange
	}
	return d.IntPart(), nil
}
