package menu

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSizePriceModifier(t *testing.T) {
	tests := []struct {
		name  string
		size  string
		index int
		want  string
	}{
		{"large", "Large (20oz)", 2, "2.5"},
		{"medium", "Medium (16oz)", 1, "0"},
		{"small", "Small (12oz)", 0, "0"},
		{"unknown first", "Grande", 0, "0"},
		{"unknown third", "Venti", 2, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SizePriceModifier(tt.size, tt.index)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("SizePriceModifier(%q, %d) = %s, want %s", tt.size, tt.index, got, tt.want)
			}
		})
	}
}

func TestMilkPrice(t *testing.T) {
	tests := []struct {
		name string
		milk string
		want string
	}{
		{"normal free", "Normal Milk", "0"},
		{"oat free", "Oat Milk", "0"},
		{"almond upcharge", "Almond Milk", "20"},
		{"soy upcharge", "Soy", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MilkPrice(tt.milk)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("MilkPrice(%q) = %s, want %s", tt.milk, got, tt.want)
			}
		})
	}
}
