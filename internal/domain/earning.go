package domain

import "strings"

// Cabin is the travel class of a flown segment.
type Cabin string

const (
	CabinEconomy        Cabin = "ECONOMY"
	CabinPremiumEconomy Cabin = "PREMIUM_ECONOMY"
	CabinBusiness       Cabin = "BUSINESS"
	CabinFirst          Cabin = "FIRST"
	CabinUnknown        Cabin = "UNKNOWN"
)

// FareType is the coarse fare-brand tier.
type FareType string

const (
	FareLight     FareType = "LIGHT"
	FareEssential FareType = "ESSENTIAL"
	FareFlex      FareType = "FLEX"
	FareUnknown   FareType = "UNKNOWN"
)

// ParseFareType normalises s to a known tier, UNKNOWN otherwise.
func ParseFareType(s string) FareType {
	switch ft := FareType(strings.ToUpper(strings.TrimSpace(s))); ft {
	case FareLight, FareEssential, FareFlex:
		return ft
	default:
		return FareUnknown
	}
}

// EarningRule maps a zone/cabin/fare/booking-class combination to a reward yield.
// A nil ShortType only matches segments without a subtype.
type EarningRule struct {
	Zone           string   `yaml:"zone" json:"zone"`
	ShortType      *string  `yaml:"short_type" json:"short_type,omitempty"`
	Cabin          string   `yaml:"cabin" json:"cabin"`
	FareType       string   `yaml:"fare_type" json:"fare_type"`
	BookingClasses []string `yaml:"booking_classes" json:"booking_classes"`
	StatusPoints   int      `yaml:"status_points" json:"status_points"`
	Miles          int      `yaml:"asia_miles" json:"asia_miles"`
}

// EarningTable is a versioned, ordered rule list. Rule order is the only priority.
type EarningTable struct {
	Version *string       `yaml:"version" json:"version,omitempty"`
	Rules   []EarningRule `yaml:"rules" json:"rules"`
}

// EmptyEarningTable has no version and no rules; every lookup misses.
func EmptyEarningTable() *EarningTable {
	return &EarningTable{Rules: []EarningRule{}}
}

// VersionString returns the version or "" when unset.
func (t *EarningTable) VersionString() string {
	if t == nil || t.Version == nil {
		return ""
	}
	return *t.Version
}

// EarningKey is the set of segment attributes a rule is matched against.
type EarningKey struct {
	Zone         Zone
	ShortType    *string
	Cabin        Cabin
	FareType     FareType
	BookingClass string
}

// rulePredicate is one field test of the matcher. A rule matches when every
// predicate holds.
type rulePredicate func(r *EarningRule, k EarningKey) bool

var rulePredicates = []rulePredicate{
	func(r *EarningRule, k EarningKey) bool { return strings.EqualFold(r.Zone, string(k.Zone)) },
	matchShortType,
	func(r *EarningRule, k EarningKey) bool { return strings.EqualFold(r.Cabin, string(k.Cabin)) },
	func(r *EarningRule, k EarningKey) bool { return strings.EqualFold(r.FareType, string(k.FareType)) },
	matchBookingClass,
}

func matchShortType(r *EarningRule, k EarningKey) bool {
	if r.ShortType == nil || k.ShortType == nil {
		return r.ShortType == nil && k.ShortType == nil
	}
	return strings.EqualFold(*r.ShortType, *k.ShortType)
}

func matchBookingClass(r *EarningRule, k EarningKey) bool {
	bc := strings.ToUpper(k.BookingClass)
	for _, c := range r.BookingClasses {
		if strings.ToUpper(strings.TrimSpace(c)) == bc {
			return true
		}
	}
	return false
}

// Matches reports whether r applies to k.
func (r *EarningRule) Matches(k EarningKey) bool {
	for _, p := range rulePredicates {
		if !p(r, k) {
			return false
		}
	}
	return true
}

// Match returns the first rule in table order that applies to k.
func (t *EarningTable) Match(k EarningKey) (*EarningRule, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Rules {
		if t.Rules[i].Matches(k) {
			return &t.Rules[i], true
		}
	}
	return nil, false
}

// SegmentEarning is the estimate for one segment. StatusPoints and Miles are
// nil when no rule matched, which is different from a rule yielding zero.
type SegmentEarning struct {
	Segment      Segment `json:"segment"`
	StatusPoints *int    `json:"status_points"`
	Miles        *int    `json:"asia_miles"`
}

// Matched reports whether a rule applied to this segment.
func (s SegmentEarning) Matched() bool {
	return s.StatusPoints != nil
}

// EarningEstimate aggregates segment estimates.
//
// StatusPoints and Miles sum only the matched segments: an unmatched segment
// contributes nothing rather than voiding the total. Use HasAny and Complete
// to tell "no data" and "partial data" apart from a full estimate.
type EarningEstimate struct {
	FareType     FareType         `json:"fare_type"`
	StatusPoints int              `json:"status_points"`
	Miles        int              `json:"asia_miles"`
	Matched      int              `json:"matched_segments"`
	Segments     []SegmentEarning `json:"segments"`
}

// HasAny reports whether at least one segment matched a rule.
func (e EarningEstimate) HasAny() bool {
	return e.Matched > 0
}

// Complete reports whether every segment matched a rule.
func (e EarningEstimate) Complete() bool {
	return len(e.Segments) > 0 && e.Matched == len(e.Segments)
}

// Estimate looks up every segment in table using fare as the fare type.
// A nil table behaves like an empty one.
func Estimate(segments []Segment, table *EarningTable, fare FareType) EarningEstimate {
	est := EarningEstimate{
		FareType: fare,
		Segments: make([]SegmentEarning, 0, len(segments)),
	}

	for _, seg := range segments {
		bc := strings.ToUpper(seg.BookingClass)
		if bc == "" {
			bc = UnknownBookingClass
		}
		rule, ok := table.Match(EarningKey{
			Zone:         seg.Zone,
			ShortType:    seg.ShortType,
			Cabin:        seg.Cabin,
			FareType:     fare,
			BookingClass: bc,
		})

		se := SegmentEarning{Segment: seg}
		if ok {
			sp, mi := rule.StatusPoints, rule.Miles
			se.StatusPoints = &sp
			se.Miles = &mi
			est.StatusPoints += sp
			est.Miles += mi
			est.Matched++
		}
		est.Segments = append(est.Segments, se)
	}

	return est
}
