package domain

// IntentionType is the kind of action an opponent telegraphs.
type IntentionType string

const (
	IntentionAttack       IntentionType = "attack"
	IntentionStandingGain IntentionType = "standing_gain"
	IntentionStall        IntentionType = "stall"
	IntentionFlustered    IntentionType = "flustered"
)

// Valid reports whether t is a known intention type.
func (t IntentionType) Valid() bool {
	switch t {
	case IntentionAttack, IntentionStandingGain, IntentionStall, IntentionFlustered:
		return true
	}
	return false
}

// Intention is a queued opponent action. It fires once the opponent's
// accumulated end-turn patience reaches PatienceThreshold (0 fires every turn).
type Intention struct {
	Name              string        `yaml:"name"`
	Type              IntentionType `yaml:"type"`
	Value             int           `yaml:"value"`
	PatienceThreshold int           `yaml:"patience_threshold,omitempty"`
}

// IsZero reports whether i is the empty intention.
func (i Intention) IsZero() bool { return i.Type == "" }

// DefaultFlusteredPool is used when content supplies no flustered actions.
var DefaultFlusteredPool = []Intention{
	{Name: "Stammers", Type: IntentionFlustered},
	{Name: "Loses the Thread", Type: IntentionFlustered},
	{Name: "Adjusts Collar", Type: IntentionFlustered},
	{Name: "Glances at the Judge", Type: IntentionFlustered},
}
