// Package analyze computes descriptive statistics over mutation families
// and projects their future growth.
package analyze

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/ppiankov/mutatrack/internal/model"
)

// Analyzer computes family statistics: size, time span, spread rate,
// viral score, mutation-type breakdown, and peak activity window
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze computes statistics for a mutation family. An empty family
// yields all-zero stats; members with missing timestamps are sorted as
// "now" and excluded from time-span math.
func (a *Analyzer) Analyze(family []model.FamilyMember) model.FamilyStats {
	if len(family) == 0 {
		return model.FamilyStats{
			MutationTypes: emptyBreakdown(),
		}
	}

	sorted := a.sortByTimestamp(family)
	familySize := len(sorted)

	timeSpanDays := a.timeSpanDays(sorted)
	spreadRate := float64(familySize) / math.Max(float64(timeSpanDays), 1)

	// Bounded composite favoring both velocity and volume
	viralScore := math.Min(100, spreadRate*10+float64(familySize)*2)
	if viralScore < 0 {
		viralScore = 0
	}

	earliest := sorted[0]
	latest := sorted[len(sorted)-1]

	return model.FamilyStats{
		FamilySize:     familySize,
		TimeSpanDays:   timeSpanDays,
		SpreadRate:     round2(spreadRate),
		ViralScore:     round1(viralScore),
		MutationTypes:  a.classifyMutations(sorted),
		EarliestSource: &earliest,
		LatestMutation: &latest,
		PeakPeriod:     a.findPeakPeriod(sorted),
	}
}

// sortByTimestamp orders members ascending, treating a zero timestamp as
// now so the sort stays total
func (a *Analyzer) sortByTimestamp(family []model.FamilyMember) []model.FamilyMember {
	now := a.now()

	type keyed struct {
		member model.FamilyMember
		key    time.Time
	}

	entries := make([]keyed, len(family))
	for i, m := range family {
		entries[i] = keyed{member: m, key: m.Timestamp}
		if m.Timestamp.IsZero() {
			slog.Warn("family member has no timestamp, treating as now", "claim_id", m.ID)
			entries[i].key = now
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key.Before(entries[j].key)
	})

	sorted := make([]model.FamilyMember, len(entries))
	for i, e := range entries {
		sorted[i] = e.member
	}
	return sorted
}

// timeSpanDays is the whole-day span between the earliest and latest
// usable timestamps, 0 for families smaller than 2
func (a *Analyzer) timeSpanDays(sorted []model.FamilyMember) int {
	if len(sorted) < 2 {
		return 0
	}

	var first, last time.Time
	for _, m := range sorted {
		if m.Timestamp.IsZero() {
			continue
		}
		if first.IsZero() {
			first = m.Timestamp
		}
		last = m.Timestamp
	}
	if first.IsZero() || last.IsZero() {
		return 0
	}

	return int(last.Sub(first).Hours() / 24)
}

// classifyMutations walks consecutive pairs in timestamp order. A pair is
// a platform crossover when the platforms differ and the earlier one is
// known; everything else counts as paraphrase. This is a placeholder
// heuristic, not a validated classifier.
func (a *Analyzer) classifyMutations(sorted []model.FamilyMember) map[model.MutationType]int {
	types := emptyBreakdown()

	for i := 1; i < len(sorted); i++ {
		prev := platformOf(sorted[i-1])
		curr := platformOf(sorted[i])

		if prev != curr && prev != model.PlatformUnknown {
			types[model.MutationPlatformCrossover]++
		} else {
			types[model.MutationParaphrase]++
		}
	}

	return types
}

// findPeakPeriod groups members by UTC calendar day and returns the
// busiest one; ties resolve to the earliest day
func (a *Analyzer) findPeakPeriod(sorted []model.FamilyMember) *model.PeakPeriod {
	if len(sorted) < 2 {
		return nil
	}

	now := a.now()
	daily := make(map[string]int)
	for _, m := range sorted {
		ts := m.Timestamp
		if ts.IsZero() {
			ts = now
		}
		daily[ts.UTC().Format("2006-01-02")]++
	}

	var peakDate string
	var peakCount int
	for date, count := range daily {
		if count > peakCount || (count == peakCount && (peakDate == "" || date < peakDate)) {
			peakDate = date
			peakCount = count
		}
	}

	return &model.PeakPeriod{
		Date:          peakDate,
		MutationCount: peakCount,
	}
}

func platformOf(m model.FamilyMember) string {
	if m.Platform == "" {
		return model.PlatformUnknown
	}
	return m.Platform
}

func emptyBreakdown() map[model.MutationType]int {
	return map[model.MutationType]int{
		model.MutationParaphrase:        0,
		model.MutationTranslation:       0,
		model.MutationPlatformCrossover: 0,
		model.MutationOther:             0,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
