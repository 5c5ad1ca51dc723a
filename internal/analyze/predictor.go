package analyze

import (
	"math"
	"time"

	"github.com/ppiankov/mutatrack/internal/model"
)

// recentWindow is the trailing window used to estimate current velocity
const recentWindow = 7 * 24 * time.Hour

// Predictor projects future family growth from recent velocity using a
// compound growth model. It is a heuristic forecast, not a calibrated
// epidemiological model; treat the output as a trend indicator.
type Predictor struct {
	now func() time.Time
}

// NewPredictor creates a new spread predictor
func NewPredictor() *Predictor {
	return &Predictor{now: time.Now}
}

// Predict projects the family size daysAhead days out. Families smaller
// than 3 members carry too little signal and return the current count.
func (p *Predictor) Predict(family []model.FamilyMember, daysAhead int) model.Prediction {
	currentCount := len(family)

	if currentCount < 3 {
		return model.Prediction{
			Prediction:     model.PredictionInsufficientData,
			CurrentCount:   currentCount,
			PredictedCount: currentCount,
			DaysAhead:      daysAhead,
			Confidence:     model.ConfidenceLow,
		}
	}

	cutoff := p.now().Add(-recentWindow)
	recent := 0
	for _, m := range family {
		if !m.Timestamp.IsZero() && !m.Timestamp.Before(cutoff) {
			recent++
		}
	}

	// Daily rate over the trailing week drives compound growth
	recentRate := float64(recent) / 7
	predictedCount := int(float64(currentCount) * math.Pow(1+recentRate, float64(daysAhead)))

	confidence := model.ConfidenceLow
	if currentCount > 10 {
		confidence = model.ConfidenceMedium
	}

	return model.Prediction{
		Prediction:     model.PredictionExponentialGrowth,
		CurrentCount:   currentCount,
		PredictedCount: predictedCount,
		DaysAhead:      daysAhead,
		GrowthRate:     round2(recentRate),
		Confidence:     confidence,
	}
}
