package analyze

import (
	"testing"
	"time"

	"github.com/ppiankov/mutatrack/internal/model"
)

func member(id, platform string, ts time.Time) model.FamilyMember {
	return model.FamilyMember{
		ID:        id,
		Platform:  platform,
		Timestamp: ts,
	}
}

func fixedAnalyzer(now time.Time) *Analyzer {
	a := NewAnalyzer()
	a.now = func() time.Time { return now }
	return a
}

func TestAnalyzer_Analyze_EmptyFamily(t *testing.T) {
	stats := NewAnalyzer().Analyze(nil)

	if stats.FamilySize != 0 || stats.ViralScore != 0 || stats.SpreadRate != 0 {
		t.Errorf("Expected all-zero stats for empty family, got %+v", stats)
	}
	if stats.PeakPeriod != nil {
		t.Errorf("Expected no peak period for empty family, got %+v", stats.PeakPeriod)
	}
	if len(stats.MutationTypes) != 4 {
		t.Errorf("Expected all 4 mutation type buckets, got %d", len(stats.MutationTypes))
	}
}

func TestAnalyzer_Analyze_SameDayFamily(t *testing.T) {
	ts := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("a", "twitter", ts),
		member("b", "twitter", ts.Add(time.Hour)),
		member("c", "twitter", ts.Add(2*time.Hour)),
	}

	stats := fixedAnalyzer(ts.Add(3 * time.Hour)).Analyze(family)

	if stats.FamilySize != 3 {
		t.Errorf("Expected family size 3, got %d", stats.FamilySize)
	}
	if stats.TimeSpanDays != 0 {
		t.Errorf("Expected 0-day span for same-day family, got %d", stats.TimeSpanDays)
	}
	// Same-day family of N has spread rate N
	if stats.SpreadRate != 3 {
		t.Errorf("Expected spread rate 3, got %f", stats.SpreadRate)
	}
	// 3*10 + 3*2 = 36
	if stats.ViralScore != 36 {
		t.Errorf("Expected viral score 36, got %f", stats.ViralScore)
	}
}

func TestAnalyzer_Analyze_TimeSpanAndRate(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("a", "twitter", start),
		member("b", "twitter", start.AddDate(0, 0, 10)),
	}

	stats := fixedAnalyzer(start.AddDate(0, 0, 11)).Analyze(family)

	if stats.TimeSpanDays != 10 {
		t.Errorf("Expected 10-day span, got %d", stats.TimeSpanDays)
	}
	if stats.SpreadRate != 0.2 {
		t.Errorf("Expected spread rate 0.2, got %f", stats.SpreadRate)
	}
}

func TestAnalyzer_Analyze_ViralScoreBounds(t *testing.T) {
	ts := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	// 80 same-day members: 80*10 + 80*2 far exceeds the cap
	var family []model.FamilyMember
	for i := 0; i < 80; i++ {
		family = append(family, member(string(rune('a'+i%26))+string(rune('0'+i/26)), "twitter", ts))
	}

	stats := fixedAnalyzer(ts).Analyze(family)
	if stats.ViralScore != 100 {
		t.Errorf("Expected viral score clamped to 100, got %f", stats.ViralScore)
	}
	if stats.ViralScore < 0 || stats.ViralScore > 100 {
		t.Errorf("Viral score out of bounds: %f", stats.ViralScore)
	}
}

func TestAnalyzer_Analyze_MutationBreakdown(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("a", "twitter", start),
		member("b", "telegram", start.Add(1*time.Hour)), // crossover: twitter -> telegram
		member("c", "telegram", start.Add(2*time.Hour)), // paraphrase: same platform
		member("d", model.PlatformUnknown, start.Add(3*time.Hour)), // known -> unknown counts as crossover
		member("e", "facebook", start.Add(4*time.Hour)), // unknown earlier platform: paraphrase
	}

	stats := fixedAnalyzer(start.Add(5 * time.Hour)).Analyze(family)

	if got := stats.MutationTypes[model.MutationPlatformCrossover]; got != 2 {
		t.Errorf("Expected 2 platform crossovers, got %d", got)
	}
	if got := stats.MutationTypes[model.MutationParaphrase]; got != 2 {
		t.Errorf("Expected 2 paraphrases, got %d", got)
	}
	if got := stats.MutationTypes[model.MutationTranslation]; got != 0 {
		t.Errorf("Expected translation bucket unused, got %d", got)
	}
}

func TestAnalyzer_Analyze_PeakPeriod(t *testing.T) {
	family := []model.FamilyMember{
		member("a", "twitter", time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)),
		member("b", "twitter", time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)),
		member("c", "twitter", time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)),
		member("d", "twitter", time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC)),
	}

	stats := fixedAnalyzer(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)).Analyze(family)

	if stats.PeakPeriod == nil {
		t.Fatal("Expected a peak period")
	}
	if stats.PeakPeriod.Date != "2026-05-02" {
		t.Errorf("Expected peak on 2026-05-02, got %s", stats.PeakPeriod.Date)
	}
	if stats.PeakPeriod.MutationCount != 2 {
		t.Errorf("Expected peak count 2, got %d", stats.PeakPeriod.MutationCount)
	}
}

func TestAnalyzer_Analyze_SingleMemberNoPeak(t *testing.T) {
	stats := NewAnalyzer().Analyze([]model.FamilyMember{
		member("a", "twitter", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	})

	if stats.PeakPeriod != nil {
		t.Errorf("Expected no peak for single-member family, got %+v", stats.PeakPeriod)
	}
	if stats.TimeSpanDays != 0 {
		t.Errorf("Expected 0-day span for single member, got %d", stats.TimeSpanDays)
	}
}

func TestAnalyzer_Analyze_ZeroTimestampDoesNotCrash(t *testing.T) {
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("dated", "twitter", now.AddDate(0, 0, -3)),
		member("undated", "twitter", time.Time{}),
	}

	stats := fixedAnalyzer(now).Analyze(family)

	if stats.FamilySize != 2 {
		t.Errorf("Expected both members counted, got %d", stats.FamilySize)
	}
	// Zero timestamps are excluded from span math; only one usable
	// timestamp remains, so the span collapses to 0
	if stats.TimeSpanDays != 0 {
		t.Errorf("Expected span 0 with one usable timestamp, got %d", stats.TimeSpanDays)
	}
}

func TestAnalyzer_Analyze_EarliestAndLatest(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("late", "twitter", start.AddDate(0, 0, 5)),
		member("early", "twitter", start),
	}

	stats := fixedAnalyzer(start.AddDate(0, 0, 6)).Analyze(family)

	if stats.EarliestSource == nil || stats.EarliestSource.ID != "early" {
		t.Errorf("Expected earliest source early, got %+v", stats.EarliestSource)
	}
	if stats.LatestMutation == nil || stats.LatestMutation.ID != "late" {
		t.Errorf("Expected latest mutation late, got %+v", stats.LatestMutation)
	}
}
