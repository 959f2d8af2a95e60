package geo

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// EarthRadiusKm - радиус Земли в километрах для формулы гаверсинуса.
	EarthRadiusKm = 6371.0

	// Границы зоны доставки (Медельин), включительно.
	MinLat = 6.0
	MaxLat = 6.5
	MinLng = -75.8
	MaxLng = -75.4
)

// HaversineKm вычисляет расстояние по большому кругу между двумя точками в километрах.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// RoundKm округляет расстояние до двух знаков после запятой.
// Округляется уже умноженное на 100 значение с плавающей точкой,
// поэтому 1.005 даёт 1 (1.005*100 = 100.49999...).
func RoundKm(km float64) float64 {
	v, _ := decimal.NewFromFloat(km * 100).Round(0).Shift(-2).Float64()
	return v
}

// InDeliveryArea проверяет, что точка лежит в прямоугольнике зоны доставки.
func InDeliveryArea(lat, lng float64) bool {
	return lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng
}
