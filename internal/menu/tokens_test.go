package menu

import (
	"reflect"
	"testing"
)

func TestCustomizationTokens(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"simple", "Oat Milk", []string{"oat"}},
		{"hyphenated upper", "OAT-MILK", []string{"oat"}},
		{"trailing space", "oat milk ", []string{"oat"}},
		{"joined word", "oatmilk", []string{"oatmilk", "oat"}},
		{"size with units", "Large (20oz)", []string{"large"}},
		{"multi token", "Spanish Latte", []string{"spanishlatte", "spanish", "latte"}},
		{"numbers dropped", "Size 16", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CustomizationTokens(tt.value)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("CustomizationTokens(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCustomizationTokensNearMiss(t *testing.T) {
	// A "Coat Milk" option must not accidentally share a key with an "oat"
	// config entry.
	oat := CustomizationTokens("oat")
	coat := CustomizationTokens("Coat Milk")

	for _, a := range oat {
		for _, b := range coat {
			if a == b {
				t.Fatalf("keys for oat %v and Coat Milk %v overlap on %q", oat, coat, a)
			}
		}
	}
}
