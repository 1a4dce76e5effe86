package difficulty

// Step maps a threshold to the points it contributes. Steps are evaluated
// highest threshold first; the first step that applies wins.
type Step struct {
	Threshold int
	Points    float64
}

// Weights names every signal's contribution to the difficulty score so the
// classifier can be asserted on signal by signal. All values are bounded;
// each signal saturates at its largest step.
type Weights struct {
	// Topic maps a topic label to its weight, range 1–4.5.
	Topic map[string]float64
	// DefaultTopic is the weight for topics not in the table.
	DefaultTopic float64

	// PromptSteps score prompt length; strictly-greater comparison.
	PromptSteps []Step
	// PromptBase is the score for prompts below every step.
	PromptBase float64

	// OptionSteps score option count; at-least comparison.
	OptionSteps []Step

	// MultiAnswerBase and MultiAnswerPer apply when the correct set has
	// more than one member: base + per × members.
	MultiAnswerBase float64
	MultiAnswerPer  float64

	// ExplanationSteps score explanation length; strictly-greater comparison.
	ExplanationSteps []Step

	// TermSteps score technical-term matches; at-least comparison.
	TermSteps []Step
	// Vocabulary is the fixed set of domain terms matched case-insensitively
	// as substrings over the prompt and options.
	Vocabulary []string

	// Banding thresholds: score ≥ HardThreshold → hard,
	// ≥ MediumThreshold → medium, else easy.
	HardThreshold   float64
	MediumThreshold float64
}

// defaultVocabulary is the acronym/term list used for the technical-term
// density signal.
var defaultVocabulary = []string{
	"TCP", "UDP", "DNS", "DHCP", "VLAN", "VPN", "OSPF", "BGP", "EIGRP",
	"NAT", "ACL", "SSH", "TLS", "SSL", "IPsec", "SNMP", "RADIUS", "LDAP",
	"SIEM", "IDS", "IPS", "PKI", "CIDR", "IPv4", "IPv6", "MTU", "QoS",
	"RAID", "SaaS", "IaaS", "PaaS", "hypervisor", "subnet", "firewall",
	"encryption", "certificate", "latency", "throughput", "failover",
	"load balancer",
}

// defaultTopicWeights assigns heavier weights to topics that historically
// trip up exam takers. Unlisted topics get DefaultTopic.
var defaultTopicWeights = map[string]float64{
	"Network Fundamentals":   1.0,
	"Hardware":               1.5,
	"Network Implementation": 2.5,
	"Wireless":               2.5,
	"Cloud":                  3.0,
	"Routing":                3.0,
	"Routing & Switching":    3.5,
	"Network Operations":     3.5,
	"Network Security":       4.0,
	"Troubleshooting":        4.5,
}

// DefaultWeights returns the standard signal table. Callers that need
// different banding copy and modify the result.
func DefaultWeights() Weights {
	topics := make(map[string]float64, len(defaultTopicWeights))
	for k, v := range defaultTopicWeights {
		topics[k] = v
	}
	return Weights{
		Topic:        topics,
		DefaultTopic: 2.0,

		PromptSteps: []Step{
			{Threshold: 200, Points: 2.0},
			{Threshold: 100, Points: 1.5},
			{Threshold: 50, Points: 1.0},
		},
		PromptBase: 0.5,

		OptionSteps: []Step{
			{Threshold: 6, Points: 1.5},
			{Threshold: 5, Points: 1.0},
			{Threshold: 4, Points: 0.5},
		},

		MultiAnswerBase: 1.5,
		MultiAnswerPer:  0.25,

		ExplanationSteps: []Step{
			{Threshold: 300, Points: 1.0},
			{Threshold: 150, Points: 0.5},
		},

		TermSteps: []Step{
			{Threshold: 3, Points: 1.0},
			{Threshold: 2, Points: 0.5},
		},
		Vocabulary: defaultVocabulary,

		HardThreshold:   7.0,
		MediumThreshold: 4.0,
	}
}
