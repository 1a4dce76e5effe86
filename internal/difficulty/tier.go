package difficulty

// Tier is the derived difficulty band of a question. It is never stored;
// classification is a pure function of question attributes.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
)

func (t Tier) String() string {
	switch t {
	case TierHard:
		return "hard"
	case TierMedium:
		return "medium"
	default:
		return "easy"
	}
}

// TierFromString parses a tier name, defaulting to easy.
func TierFromString(s string) Tier {
	switch s {
	case "hard":
		return TierHard
	case "medium":
		return TierMedium
	default:
		return TierEasy
	}
}

// Tiers lists all tiers from easy to hard.
func Tiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard}
}
