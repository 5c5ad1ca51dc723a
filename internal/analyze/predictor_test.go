package analyze

import (
	"testing"
	"time"

	"github.com/ppiankov/mutatrack/internal/model"
)

func fixedPredictor(now time.Time) *Predictor {
	p := NewPredictor()
	p.now = func() time.Time { return now }
	return p
}

func TestPredictor_Predict_InsufficientData(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("a", "twitter", now.AddDate(0, 0, -1)),
		member("b", "twitter", now),
	}

	pred := fixedPredictor(now).Predict(family, 7)

	if pred.Prediction != model.PredictionInsufficientData {
		t.Errorf("Expected insufficient_data, got %s", pred.Prediction)
	}
	if pred.PredictedCount != pred.CurrentCount {
		t.Errorf("Expected predicted count to equal current count, got %d vs %d",
			pred.PredictedCount, pred.CurrentCount)
	}
	if pred.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", pred.Confidence)
	}
}

func TestPredictor_Predict_CompoundGrowth(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	// 7 members in the trailing week: recent rate = 1/day
	var family []model.FamilyMember
	for i := 0; i < 7; i++ {
		family = append(family, member("r", "twitter", now.AddDate(0, 0, -i)))
	}

	pred := fixedPredictor(now).Predict(family, 7)

	if pred.Prediction != model.PredictionExponentialGrowth {
		t.Errorf("Expected exponential_growth, got %s", pred.Prediction)
	}
	// 7 * (1+1)^7 = 896
	if pred.PredictedCount != 896 {
		t.Errorf("Expected predicted count 896, got %d", pred.PredictedCount)
	}
	if pred.GrowthRate != 1 {
		t.Errorf("Expected growth rate 1, got %f", pred.GrowthRate)
	}
}

func TestPredictor_Predict_StaleFamilyDoesNotGrow(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	// All members older than the trailing week
	var family []model.FamilyMember
	for i := 0; i < 5; i++ {
		family = append(family, member("s", "twitter", now.AddDate(0, -2, -i)))
	}

	pred := fixedPredictor(now).Predict(family, 7)

	if pred.GrowthRate != 0 {
		t.Errorf("Expected zero growth rate for stale family, got %f", pred.GrowthRate)
	}
	if pred.PredictedCount != pred.CurrentCount {
		t.Errorf("Expected no growth, got %d from %d", pred.PredictedCount, pred.CurrentCount)
	}
}

func TestPredictor_Predict_Confidence(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	small := make([]model.FamilyMember, 5)
	large := make([]model.FamilyMember, 11)
	for i := range small {
		small[i] = member("s", "twitter", now)
	}
	for i := range large {
		large[i] = member("l", "twitter", now)
	}

	p := fixedPredictor(now)
	if got := p.Predict(small, 7).Confidence; got != model.ConfidenceLow {
		t.Errorf("Expected low confidence for family of 5, got %s", got)
	}
	if got := p.Predict(large, 7).Confidence; got != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence for family of 11, got %s", got)
	}
}

func TestPredictor_Predict_ZeroTimestampsExcludedFromRecent(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	family := []model.FamilyMember{
		member("a", "twitter", time.Time{}),
		member("b", "twitter", time.Time{}),
		member("c", "twitter", time.Time{}),
	}

	pred := fixedPredictor(now).Predict(family, 7)
	if pred.GrowthRate != 0 {
		t.Errorf("Expected undated members excluded from velocity, got rate %f", pred.GrowthRate)
	}
}
