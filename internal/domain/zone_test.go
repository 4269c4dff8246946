package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneClassifier_Classify(t *testing.T) {
	c := DefaultZoneClassifier()

	tests := []struct {
		name      string
		miles     float64
		origin    string
		dest      string
		wantZone  Zone
		wantShort *string
	}{
		{"zero", 0, "HK", "JP", ZoneUnknown, nil},
		{"negative", -5, "HK", "JP", ZoneUnknown, nil},
		{"nan", math.NaN(), "HK", "JP", ZoneUnknown, nil},
		{"ultra short lower edge", 1, "HK", "TW", ZoneUltraShort, nil},
		{"ultra short upper edge", 750, "HK", "TW", ZoneUltraShort, nil},
		{"fraction between bands", 750.5, "HK", "TW", ZoneUltraShort, nil},
		{"short type1", 1823, "HK", "JP", ZoneShort, strp(SubtypeType1)},
		{"short type2 origin", 2000, "id", "HK", ZoneShort, strp(SubtypeType2)},
		{"short type2 dest", 2000, "HK", "IN", ZoneShort, strp(SubtypeType2)},
		{"below one mile", 0.5, "HK", "TW", ZoneUnknown, nil},
		{"short lower edge", 751, "HK", "JP", ZoneShort, strp(SubtypeType1)},
		{"short upper edge", 2750, "HK", "JP", ZoneShort, strp(SubtypeType1)},
		{"fraction above short", 2750.7, "HK", "JP", ZoneShort, strp(SubtypeType1)},
		{"medium lower edge", 2751, "HK", "JP", ZoneMedium, nil},
		{"medium upper edge", 5000, "HK", "GB", ZoneMedium, nil},
		{"long lower edge", 5001, "HK", "GB", ZoneLong, nil},
		{"long upper edge", 7500, "HK", "GB", ZoneLong, nil},
		{"fraction above long", 7500.5, "HK", "GB", ZoneLong, nil},
		{"ultra long lower edge", 7501, "HK", "US", ZoneUltraLong, nil},
		{"medium ignores grouped set", 3000, "HK", "IN", ZoneMedium, nil},
		{"long", 6000, "HK", "GB", ZoneLong, nil},
		{"ultra long", 8000, "HK", "US", ZoneUltraLong, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, short := c.Classify(tt.miles, tt.origin, tt.dest)
			assert.Equal(t, tt.wantZone, zone)
			assert.Equal(t, tt.wantShort, short)
		})
	}
}

func TestZoneClassifier_CustomGroupedSet(t *testing.T) {
	c := NewZoneClassifier([]string{" jp ", ""})

	_, short := c.Classify(1823, "HK", "JP")
	assert.Equal(t, strp(SubtypeType2), short)

	_, short = c.Classify(2000, "HK", "IN")
	assert.Equal(t, strp(SubtypeType1), short)
}

func TestClassify_BandsLeaveNoGaps(t *testing.T) {
	c := DefaultZoneClassifier()
	order := map[Zone]int{ZoneUltraShort: 0, ZoneShort: 1, ZoneMedium: 2, ZoneLong: 3, ZoneUltraLong: 4}

	prev := 0
	for tenths := 10; tenths <= 75010; tenths++ {
		miles := float64(tenths) / 10
		zone, _ := c.Classify(miles, "HK", "GB")
		rank, ok := order[zone]
		if !ok {
			t.Fatalf("Classify(%v) = %s, want a known zone", miles, zone)
		}
		if rank < prev {
			t.Fatalf("Classify(%v) = %s, bands must not go backwards", miles, zone)
		}
		prev = rank
	}
}
