package pricing

import (
	"math"
	"testing"
	"time"
)

func TestLuggageFee(t *testing.T) {
	tests := []struct {
		name  string
		items []Luggage
		want  float64
	}{
		{"no items", nil, 0},
		{"small item", []Luggage{{SizeInches: 20, Quantity: 1}}, 50},
		{"medium item", []Luggage{{SizeInches: 24, Quantity: 1}}, 80},
		{"large item", []Luggage{{SizeInches: 28, Quantity: 1}}, 100},
		{"boundary 21 is medium", []Luggage{{SizeInches: 21, Quantity: 1}}, 80},
		{"boundary 25 is large", []Luggage{{SizeInches: 25, Quantity: 1}}, 100},
		{"quantity multiplies", []Luggage{{SizeInches: 24, Quantity: 3}}, 240},
		{"zero quantity billed as one", []Luggage{{SizeInches: 20, Quantity: 0}}, 50},
		{
			"mixed sizes",
			[]Luggage{{SizeInches: 20, Quantity: 2}, {SizeInches: 28, Quantity: 1}},
			200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LuggageFee(tt.items); got != tt.want {
				t.Errorf("LuggageFee() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		items      []Luggage
		want       float64
	}{
		{"zero distance no luggage", 0, nil, 30},
		{"ten km no luggage", 10, nil, 330},
		{"ten km two mediums", 10, []Luggage{{SizeInches: 24, Quantity: 2}}, 490},
		{"fractional distance rounds to cents", 1.234, nil, 67.02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.distanceKm, tt.items); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Quote() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestQuote_MonotonicInDistance(t *testing.T) {
	prev := Quote(0, nil)
	for km := 1.0; km <= 50; km++ {
		cur := Quote(km, nil)
		if cur <= prev {
			t.Fatalf("Quote(%f) = %f, not greater than Quote(%f) = %f", km, cur, km-1, prev)
		}
		prev = cur
	}
}

func TestEstimateEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		distanceKm float64
		want       time.Time
	}{
		{"short leg floors at 30 minutes", 1, start.Add(30 * time.Minute)},
		{"35km takes one hour", 35, start.Add(time.Hour)},
		{"70km takes two hours", 70, start.Add(2 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateEnd(start, tt.distanceKm)
			if got.Sub(tt.want).Abs() > time.Second {
				t.Errorf("EstimateEnd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendVehicle(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "sedan"},
		{2, "sedan"},
		{3, "suv"},
		{4, "suv"},
		{5, "van"},
		{9, "van"},
	}
	for _, tt := range tests {
		if got := RecommendVehicle(tt.count); got != tt.want {
			t.Errorf("RecommendVehicle(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestVehicleQuote(t *testing.T) {
	sedan, _ := TierByType("sedan")
	suv, _ := TierByType("suv")
	van, _ := TierByType("van")

	tests := []struct {
		name string
		base float64
		tier Tier
		want float64
	}{
		{"sedan keeps base", 400, sedan, 400},
		{"suv multiplies", 400, suv, 500},
		{"van multiplies", 400, van, 600},
		{"rounds to whole units", 333, suv, 416},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VehicleQuote(tt.base, tt.tier); got != tt.want {
				t.Errorf("VehicleQuote() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTierByType_Unknown(t *testing.T) {
	if _, ok := TierByType("helicopter"); ok {
		t.Error("TierByType(helicopter) ok = true, want false")
	}
}

func TestTiers_ReturnsCopy(t *testing.T) {
	got := Tiers()
	got[0].Multiplier = 99
	again := Tiers()
	if again[0].Multiplier == 99 {
		t.Error("Tiers() exposes internal catalog for mutation")
	}
}

func TestFallbackEstimate(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		want       float64
	}{
		{"short leg floors at 350", 2, 350},
		{"long leg prices per km", 10, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackEstimate(tt.distanceKm); got != tt.want {
				t.Errorf("FallbackEstimate() = %f, want %f", got, tt.want)
			}
		})
	}
}
