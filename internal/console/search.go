package console

import (
	"strings"

	"fleetflow/internal/api"
)

// FilterTrips returns the trips whose origin, destination or id contain
// term, ignoring case. The input slice is never modified.
func FilterTrips(trips []api.Trip, term string) []api.Trip {
	return filter(trips, term, func(t api.Trip) []string {
		return []string{t.StartLocation, t.EndLocation, t.ID}
	})
}

func filter[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if term == "" || matches(fields(item), term) {
			out = append(out, item)
		}
	}
	return out
}

func matches(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
