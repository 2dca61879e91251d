package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetflow/internal/api"
)

func sampleTrips() []api.Trip {
	return []api.Trip{
		{ID: "a1", StartLocation: "Mumbai", EndLocation: "Pune"},
		{ID: "b2", StartLocation: "Delhi", EndLocation: "Agra"},
		{ID: "c3-mum", StartLocation: "", EndLocation: ""},
	}
}

func ids(trips []api.Trip) []string {
	out := make([]string, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTrips(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"a1", "b2", "c3-mum"}},
		{"mum", []string{"a1", "c3-mum"}},
		{"MUMBAI", []string{"a1"}},
		{"agra", []string{"b2"}},
		{" ", []string{}},
		{" agra", []string{}},
		{"b2", []string{"b2"}},
		{"chennai", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterTrips(sampleTrips(), tt.term)))
		})
	}
}

func TestFilterTrips_IdempotentAndPure(t *testing.T) {
	trips := sampleTrips()
	before := sampleTrips()

	once := FilterTrips(trips, "Pu")
	twice := FilterTrips(once, "Pu")
	assert.Equal(t, once, twice)
	assert.Equal(t, before, trips)

	assert.Equal(t, FilterTrips(trips, "pune"), FilterTrips(trips, "PUNE"))
}
