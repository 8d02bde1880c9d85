package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Karlsruhe to Stuttgart",
			lat1: 49.0069, lon1: 8.4037,
			lat2: 48.7758, lon2: 9.1829,
			wantMeters:       62_500, // ~62.5 km great-circle
			tolerancePercent: 1,
		},
		{
			name: "Same point",
			lat1: 49.0069, lon1: 8.4037,
			lat2: 49.0069, lon2: 8.4037,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500, // ~343.5 km
			tolerancePercent: 1,
		},
		{
			name: "Short distance (~100m)",
			lat1: 49.0000, lon1: 8.4000,
			lat2: 49.0009, lon2: 8.4000,
			wantMeters:       100,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func BenchmarkHaversine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Haversine(49.0069, 8.4037, 48.7758, 9.1829)
	}
}
