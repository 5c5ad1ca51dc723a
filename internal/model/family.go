package model

import "time"

// FamilyMember is one claim in a mutation family, annotated with its
// traversal distance from the seed claim
type FamilyMember struct {
	ID        string    `json:"id"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform,omitempty"`
	Distance  int       `json:"distance"` // Hops from the seed (seed itself is 0)
}

// MutationType categorizes how one claim variant relates to the previous one
type MutationType string

const (
	MutationParaphrase        MutationType = "paraphrase"         // Reworded on the same platform
	MutationTranslation       MutationType = "translation"        // Reserved; classifier does not emit it yet
	MutationPlatformCrossover MutationType = "platform_crossover" // Jumped to a different platform
	MutationOther             MutationType = "other"
)

// FamilyStats describes a mutation family: how large it is, how fast it
// spreads, and how its members mutate
type FamilyStats struct {
	FamilySize     int                  `json:"family_size"`
	TimeSpanDays   int                  `json:"time_span_days"`
	SpreadRate     float64              `json:"spread_rate"` // Members per day over the family's life
	ViralScore     float64              `json:"viral_score"` // Bounded 0-100 composite of rate and volume
	MutationTypes  map[MutationType]int `json:"mutation_types"`
	EarliestSource *FamilyMember        `json:"earliest_source,omitempty"`
	LatestMutation *FamilyMember        `json:"latest_mutation,omitempty"`
	PeakPeriod     *PeakPeriod          `json:"peak_period,omitempty"`
}

// PeakPeriod is the calendar day (UTC) with the most family activity
type PeakPeriod struct {
	Date          string `json:"date"` // YYYY-MM-DD
	MutationCount int    `json:"mutation_count"`
}

// Prediction outcomes. The growth model is a single-parameter heuristic
// forecast, not a calibrated epidemiological model.
const (
	PredictionInsufficientData  = "insufficient_data"
	PredictionExponentialGrowth = "exponential_growth"
)

// Confidence levels for a spread prediction
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
)

// Prediction is a projection of future family growth from recent velocity
type Prediction struct {
	Prediction     string  `json:"prediction"`
	CurrentCount   int     `json:"current_count"`
	PredictedCount int     `json:"predicted_count"`
	DaysAhead      int     `json:"days_ahead"`
	GrowthRate     float64 `json:"growth_rate"` // Members per day over the trailing week
	Confidence     string  `json:"confidence"`
}
