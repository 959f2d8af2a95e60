package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/agamariel/parcerogo/internal/models"
)

func TestEstimateETAMinutes(t *testing.T) {
	tests := []struct {
		name         string
		deliveryTime int64
		distanceKm   float64
		want         int64
	}{
		{"default delivery time", 0, 0, 30},
		{"rounds down", 25, 1.2, 27},
		{"rounds half up", 25, 1.25, 28},
		{"long distance", 40, 10, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateETAMinutes(tt.deliveryTime, tt.distanceKm); got != tt.want {
				t.Errorf("EstimateETAMinutes(%d, %v) = %d, want %d", tt.deliveryTime, tt.distanceKm, got, tt.want)
			}
		})
	}
}

func TestParseTip(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"", 0},
		{"1000", 1000},
		{"1000.9", 1000},
		{"-500", 0},
		{"abc", 0},
		{" 200 ", 200},
		{"9223372036854775807", 9223372036854775807},
		{"9223372036854775808", 0},
		{"18446744073709551617", 0},
		{"1e30", 0},
		{"-1e30", 0},
	}
	for _, tt := range tests {
		if got := ParseTip(tt.raw); got != tt.want {
			t.Errorf("ParseTip(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestLineSubtotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice int64
		quantity  int64
		want      int64
		wantErr   bool
	}{
		{name: "regular", unitPrice: 5000, quantity: 2, want: 10000},
		{name: "max fits", unitPrice: 1, quantity: math.MaxInt64, want: math.MaxInt64},
		{name: "huge quantity", unitPrice: 5000, quantity: 1 << 62, wantErr: true},
		{name: "just over max", unitPrice: 2, quantity: math.MaxInt64/2 + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LineSubtotal(tt.unitPrice, tt.quantity)
			if tt.wantErr {
				if !errors.Is(err, ErrAmountOutOfRange) {
					t.Fatalf("LineSubtotal() error = %v, want ErrAmountOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LineSubtotal() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LineSubtotal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrderTotal(t *testing.T) {
	lines := []models.OrderLine{
		{UnitPrice: 5000, Quantity: 2, Subtotal: 10000},
		{UnitPrice: 1500, Quantity: 1, Subtotal: 1500},
	}

	tests := []struct {
		name    string
		lines   []models.OrderLine
		tip     int64
		want    int64
		wantErr bool
	}{
		{name: "with tip", lines: lines, tip: 1000, want: 12500},
		{name: "negative tip", lines: lines, tip: -300, want: 11500},
		{name: "empty", lines: nil, tip: 0, want: 0},
		{name: "tip overflows sum", lines: lines, tip: math.MaxInt64, wantErr: true},
		{
			name: "subtotals overflow sum",
			lines: []models.OrderLine{
				{Subtotal: math.MaxInt64},
				{Subtotal: 1},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderTotal(tt.lines, tt.tip)
			if tt.wantErr {
				if !errors.Is(err, ErrAmountOutOfRange) {
					t.Fatalf("OrderTotal() error = %v, want ErrAmountOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OrderTotal() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OrderTotal() = %d, want %d", got, tt.want)
			}
		})
	}
}
