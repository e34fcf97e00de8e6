package domain

// TierDefinition is one rung of a judge's standing ladder.
type TierDefinition struct {
	TierNumber    int    `yaml:"tier"`
	FavorRequired int    `yaml:"favor_required"` // favor needed to leave this tier upward
	TierName      string `yaml:"name"`
}

// Ladder is the ordered tier structure supplied by a judge.
type Ladder []TierDefinition

// MaxTier returns the highest tier number on the ladder.
func (l Ladder) MaxTier() int {
	top := 0
	for _, t := range l {
		top = max(top, t.TierNumber)
	}
	return top
}

// Requirement returns the favor required to advance out of tier, or 0 if the tier is unknown.
func (l Ladder) Requirement(tier int) int {
	for _, t := range l {
		if t.TierNumber == tier {
			return t.FavorRequired
		}
	}
	return 0
}

// Name returns the display name of tier.
func (l Ladder) Name(tier int) string {
	for _, t := range l {
		if t.TierNumber == tier {
			return t.TierName
		}
	}
	return ""
}

// Standing is a combatant's progress on the ladder.
type Standing struct {
	CurrentTier        int
	FavorInCurrentTier int
}

// Add consumes amount into the current tier, rolling overflow into the following
// tiers. Once the top tier is reached the remainder keeps accumulating there.
// A negative amount is treated as Remove.
func (s Standing) Add(l Ladder, amount int) Standing {
	if amount < 0 {
		return s.Remove(l, -amount)
	}
	s.FavorInCurrentTier += amount
	top := l.MaxTier()
	for s.CurrentTier < top {
		req := l.Requirement(s.CurrentTier)
		if req <= 0 || s.FavorInCurrentTier < req {
			break
		}
		s.FavorInCurrentTier -= req
		s.CurrentTier++
	}
	return s
}

// Remove deducts amount, demoting through lower tiers while a deficit remains.
// Each demotion refills favor to the lower tier's full requirement minus the
// deficit. Standing never drops below tier 0 with 0 favor.
func (s Standing) Remove(l Ladder, amount int) Standing {
	if amount < 0 {
		return s.Add(l, -amount)
	}
	s.FavorInCurrentTier -= amount
	for s.FavorInCurrentTier < 0 {
		if s.CurrentTier <= 0 {
			s.CurrentTier = 0
			s.FavorInCurrentTier = 0
			break
		}
		s.CurrentTier--
		s.FavorInCurrentTier += l.Requirement(s.CurrentTier)
	}
	return s
}

// TierProgress is a read model of standing for display.
type TierProgress struct {
	Tier     int
	TierName string
	Favor    int
	Required int
	AtMax    bool
}

// Progress describes s against l.
func (s Standing) Progress(l Ladder) TierProgress {
	top := l.MaxTier()
	p := TierProgress{
		Tier:     s.CurrentTier,
		TierName: l.Name(s.CurrentTier),
		Favor:    s.FavorInCurrentTier,
		AtMax:    s.CurrentTier >= top,
	}
	if !p.AtMax {
		p.Required = l.Requirement(s.CurrentTier)
	}
	return p
}
