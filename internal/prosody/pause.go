package prosody

import "fmt"

// PauseConfig describes the pause behaviour at one boundary strength.
type PauseConfig struct {
	PauseMS           float64
	CanBreath         bool
	BreathProbability float64
}

// NewPauseConfig validates the range constraints up front instead of
// clamping silently.
func NewPauseConfig(pauseMS float64, canBreath bool, breathProbability float64) (PauseConfig, error) {
	if pauseMS < 0 {
		return PauseConfig{}, fmt.Errorf("pause duration must be >= 0, got %v", pauseMS)
	}
	if breathProbability < 0 || breathProbability > 1 {
		return PauseConfig{}, fmt.Errorf("breath probability must be in [0,1], got %v", breathProbability)
	}
	return PauseConfig{PauseMS: pauseMS, CanBreath: canBreath, BreathProbability: breathProbability}, nil
}

// pauseTable maps each boundary strength to its pause behaviour. These values
// are tuning decisions; keep the durations strictly decreasing from sentence
// to clause to phrase if you retune them.
var pauseTable = map[BoundaryType]PauseConfig{
	BoundarySentence: {PauseMS: 350, CanBreath: true, BreathProbability: 0.35},
	BoundaryClause:   {PauseMS: 180, CanBreath: true, BreathProbability: 0.15},
	BoundaryPhrase:   {PauseMS: 100, CanBreath: false, BreathProbability: 0},
	BoundaryBreath:   {PauseMS: 130, CanBreath: true, BreathProbability: 0.90},
	BoundaryNone:     {PauseMS: 0, CanBreath: false, BreathProbability: 0},
}

// PauseFor is total over any BoundaryType value: unmapped values get a zero
// pause rather than an error, so a bad boundary can never stall stitching.
func PauseFor(b BoundaryType) PauseConfig {
	if pc, ok := pauseTable[b]; ok {
		return pc
	}
	return PauseConfig{}
}
