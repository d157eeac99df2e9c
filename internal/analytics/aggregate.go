// Package analytics reduces click events into dashboard summaries.
// Every function is pure and leaves its input untouched.
package analytics

import (
	"slices"

	"trimlink/internal/domain"

	"github.com/samber/lo"
)

// TopLocations is how many cities or countries a histogram keeps.
const TopLocations = 5

// CityCount is one bar of the city histogram.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// CountryCount is one bar of the country histogram.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// Summary bundles every view the link page renders.
type Summary struct {
	TotalClicks int                       `json:"total_clicks"`
	Devices     map[domain.DeviceType]int `json:"devices"`
	Cities      []CityCount               `json:"cities"`
	Countries   []CountryCount            `json:"countries"`
}

// TotalClicks counts every event, located or not.
func TotalClicks(events []domain.ClickEvent) int {
	return len(events)
}

// ByDevice counts events per device class. Unknown classes count as the
// default device type, so the values always sum to TotalClicks.
func ByDevice(events []domain.ClickEvent) map[domain.DeviceType]int {
	return lo.CountValuesBy(events, func(e domain.ClickEvent) domain.DeviceType {
		return domain.ParseDeviceType(string(e.DeviceType))
	})
}

// ByCity returns the top cities by click count, ties in first-seen order.
// Events without a city are left out.
func ByCity(events []domain.ClickEvent) []CityCount {
	ranked := rank(events, func(e domain.ClickEvent) string { return e.City })
	return lo.Map(ranked, func(b bucket, _ int) CityCount {
		return CityCount{City: b.key, Count: b.count}
	})
}

// ByCountry returns the top countries by click count, ties in first-seen order.
func ByCountry(events []domain.ClickEvent) []CountryCount {
	ranked := rank(events, func(e domain.ClickEvent) string { return e.Country })
	return lo.Map(ranked, func(b bucket, _ int) CountryCount {
		return CountryCount{Country: b.key, Count: b.count}
	})
}

// Summarize computes all views in one call.
func Summarize(events []domain.ClickEvent) Summary {
	return Summary{
		TotalClicks: TotalClicks(events),
		Devices:     ByDevice(events),
		Cities:      ByCity(events),
		Countries:   ByCountry(events),
	}
}

type bucket struct {
	key   string
	count int
}

func rank(events []domain.ClickEvent, keyOf func(domain.ClickEvent) string) []bucket {
	buckets := make([]bucket, 0)
	index := make(map[string]int)

	for _, e := range events {
		key := keyOf(e)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			buckets[i].count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, bucket{key: key, count: 1})
	}

	slices.SortStableFunc(buckets, func(a, b bucket) int {
		return b.count - a.count
	})

	if len(buckets) > TopLocations {
		buckets = buckets[:TopLocations]
	}
	return buckets
}
