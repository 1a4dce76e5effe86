package progress

// MasteryLevel is the coarse tri-level summary of historical correctness
// in a topic, gated by a minimum sample size.
type MasteryLevel string

const (
	LevelBeginner     MasteryLevel = "beginner"
	LevelIntermediate MasteryLevel = "intermediate"
	LevelAdvanced     MasteryLevel = "advanced"
)

// Profile holds per-topic mastery counters for a learner.
type Profile struct {
	Topic    string
	Answered int
	Correct  int
	Level    MasteryLevel
}

// Ratio returns the correctness ratio, 0 when nothing has been answered.
func (p *Profile) Ratio() float64 {
	if p.Answered == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Answered)
}

// Thresholds gate mastery levels on correctness ratio and sample size.
// The sample floors prevent declaring mastery from a handful of answers.
type Thresholds struct {
	AdvancedRatio          float64
	AdvancedMinSamples     int
	IntermediateRatio      float64
	IntermediateMinSamples int
}

// DefaultThresholds returns the standard mastery gating.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AdvancedRatio:          0.8,
		AdvancedMinSamples:     5,
		IntermediateRatio:      0.6,
		IntermediateMinSamples: 3,
	}
}

// levelFor computes the mastery level from counters.
func levelFor(th Thresholds, answered, correct int) MasteryLevel {
	if answered == 0 {
		return LevelBeginner
	}
	ratio := float64(correct) / float64(answered)
	switch {
	case answered >= th.AdvancedMinSamples && ratio >= th.AdvancedRatio:
		return LevelAdvanced
	case answered >= th.IntermediateMinSamples && ratio >= th.IntermediateRatio:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// Streak holds the session-completion streak counters. A streak grows on
// completed sessions at or above the accuracy bar and resets otherwise.
type Streak struct {
	Current int
	Best    int
}

// StreakAccuracyBar is the session accuracy required to extend a streak.
const StreakAccuracyBar = 0.70
