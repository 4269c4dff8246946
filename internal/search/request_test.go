package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		ok     bool
	}{
		{"valid", func(r *Request) {}, true},
		{"bad hub", func(r *Request) { r.Hub = "HK" }, false},
		{"bad destination", func(r *Request) { r.Destination = "L1R" }, false},
		{"same hub and destination", func(r *Request) { r.Destination = "hkg" }, false},
		{"missing return", func(r *Request) { r.Return = time.Time{} }, false},
		{"return before depart", func(r *Request) { r.Return = date("2026-03-01") }, false},
		{"same day return", func(r *Request) { r.Return = r.Depart }, true},
		{"too many adults", func(r *Request) { r.Adults = 10 }, false},
		{"unknown cabin", func(r *Request) { r.Cabin = "coach" }, false},
		{"bad origin", func(r *Request) { r.Origins = []string{"PE"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRequest()
			tt.mutate(&r)
			r.Normalize("HKD", 20)
			err := r.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			}
		})
	}
}

func TestRequestNormalizeDefaults(t *testing.T) {
	r := Request{Hub: " hkg ", Destination: "lhr", Origins: []string{"pek"}}
	r.Normalize("HKD", 20)

	assert.Equal(t, "HKG", r.Hub)
	assert.Equal(t, "HKD", r.Currency)
	assert.Equal(t, "ANY", r.Cabin)
	assert.Equal(t, "AUTO", r.FareType)
	assert.Equal(t, 1, r.Adults)
	assert.Equal(t, 20, r.MaxResults)
	assert.Equal(t, []string{"PEK"}, r.Origins)
}

func TestResolveOrigins(t *testing.T) {
	r := Request{Hub: "HKG", Destination: "LHR", Regions: []string{"taiwan", "atlantis", "singapore"}}
	origins, unknown := ResolveOrigins(r, 0)
	assert.Equal(t, []string{"TPE", "TSA", "KHH", "RMQ", "SIN"}, origins)
	assert.Equal(t, []string{"atlantis"}, unknown)

	capped, _ := ResolveOrigins(r, 1)
	assert.Equal(t, []string{"TPE"}, capped)
}
