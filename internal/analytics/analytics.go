// Package analytics generates deterministic mock readership stats for an
// article. Every figure is derived from a seeded RNG, so the same article
// always reports the same numbers. Real analytics integration would slot in
// behind the same Report shape.
package analytics

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// DailyViews is one day of view counts.
type DailyViews struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Views int    `json:"views"`
}

// Report is the full mock analytics profile for one article.
type Report struct {
	TotalViews     int            `json:"total_views"`
	Daily          []DailyViews   `json:"daily"`
	AvgReadTimeMin float64        `json:"avg_read_time_min"`
	ConversionPct  float64        `json:"conversion_pct"`
	AgeGroups      map[string]int `json:"age_groups"` // Readers per bracket
	GenderPct      GenderSplit    `json:"gender_pct"`
	DevicePct      DeviceSplit    `json:"device_pct"`
}

// GenderSplit is a percentage breakdown summing to 100.
type GenderSplit struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

// DeviceSplit is a percentage breakdown summing to 100.
type DeviceSplit struct {
	Mobile  float64 `json:"mobile"`
	Desktop float64 `json:"desktop"`
	Other   float64 `json:"other"`
}

var ageBrackets = []string{"16-24", "25-34", "35-44", "45-54", "55-64", "65+"}

// Generate builds the mock report for one seed (typically the article URL).
// A zero published date is treated as thirty days ago; future dates clamp to
// yesterday.
func Generate(seed string, published time.Time) *Report {
	return generateAt(seed, published, time.Now())
}

func generateAt(seed string, published time.Time, now time.Time) *Report {
	rng := rand.New(rand.NewSource(hashSeed(seed)))

	today := now.Truncate(24 * time.Hour)
	pub := published.Truncate(24 * time.Hour)
	if published.IsZero() {
		pub = today.AddDate(0, 0, -30)
	}
	if pub.After(today) {
		pub = today.AddDate(0, 0, -1)
	}
	days := int(today.Sub(pub).Hours()/24) + 1

	// Background noise per day.
	views := make([]float64, days)
	for i := range views {
		views[i] = float64(10 + rng.Intn(90))
	}

	// Initial viral spike with exponential decay and daily jitter.
	spike := float64(1337 + rng.Intn(67000-1337+1))
	decay := 0.45 + rng.Float64()*0.30
	factor := 1.0
	for i := range views {
		jitter := 0.8 + rng.Float64()*0.4
		views[i] += spike * factor * jitter
		factor *= decay
	}

	// Occasional resurgence bumps on older articles, each fading over three
	// days at 10-30% of the original spike.
	if days > 14 {
		bumps := 1 + rng.Intn(max(2, (days-1)/60))
		for b := 0; b < bumps; b++ {
			if days <= 10 {
				break
			}
			day := 7 + rng.Intn(days-7)
			height := spike * (0.1 + rng.Float64()*0.2)
			for j := 0; j < 3 && day+j < days; j++ {
				views[day+j] += height / float64(int(1)<<j)
			}
		}
	}

	daily := make([]DailyViews, days)
	total := 0
	for i := range views {
		v := int(views[i] * (0.95 + rng.Float64()*0.10))
		if v < 0 {
			v = 0
		}
		daily[i] = DailyViews{Date: pub.AddDate(0, 0, i).Format("2006-01-02"), Views: v}
		total += v
	}

	ages := make(map[string]int, len(ageBrackets))
	for _, bracket := range ageBrackets {
		ages[bracket] = 10 + rng.Intn(91)
	}

	male := float64(35 + rng.Intn(26))
	female := float64(40 + rng.Intn(26))
	genderTotal := male + female

	mobile := float64(65 + rng.Intn(16))
	desktop := float64(20 + rng.Intn(11))
	other := 100 - mobile - desktop
	if other < 2 {
		other = 2
	}
	deviceTotal := mobile + desktop + other

	return &Report{
		TotalViews:     total,
		Daily:          daily,
		AvgReadTimeMin: 0.4 + rng.Float64()*7.6,
		ConversionPct:  0.5 + rng.Float64()*6.4,
		AgeGroups:      ages,
		GenderPct: GenderSplit{
			Male:   male / genderTotal * 100,
			Female: female / genderTotal * 100,
		},
		DevicePct: DeviceSplit{
			Mobile:  mobile / deviceTotal * 100,
			Desktop: desktop / deviceTotal * 100,
			Other:   other / deviceTotal * 100,
		},
	}
}

func hashSeed(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}
