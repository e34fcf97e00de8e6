package domain

// Harmony classifies how the previously played element flows into the next one.
type Harmony string

const (
	// HarmonyNeutral is the opening play or a repeat of the same element.
	HarmonyNeutral Harmony = "neutral"
	// HarmonyBalanced follows the generating cycle (distance 1) and lowers cost.
	HarmonyBalanced Harmony = "balanced"
	// HarmonyChaos skips one element (distance 2); costlier, but effects resolve doubled.
	HarmonyChaos Harmony = "chaos"
	// HarmonyDissonant moves against the cycle (distance 3 or 4).
	HarmonyDissonant Harmony = "dissonant"
)

// ClassifyHarmony returns the flow tier for playing current after previous.
// A nil previous element, or any unknown element, is Neutral.
func ClassifyHarmony(previous *Element, current Element) Harmony {
	if previous == nil {
		return HarmonyNeutral
	}
	prev, cur := previous.Index(), current.Index()
	if prev < 0 || cur < 0 {
		return HarmonyNeutral
	}
	n := len(ElementCycle)
	switch (cur - prev + n) % n {
	case 1:
		return HarmonyBalanced
	case 2:
		return HarmonyChaos
	case 3, 4:
		return HarmonyDissonant
	default:
		return HarmonyNeutral
	}
}

// NextHarmonyStreak updates the streak counter after a play of the given harmony.
// Balanced plays climb toward threshold, chaos resets, everything else decays by one.
func NextHarmonyStreak(streak int, h Harmony, threshold int) int {
	switch h {
	case HarmonyBalanced:
		return min(streak+1, max(threshold, 0))
	case HarmonyChaos:
		return 0
	default:
		return max(streak-1, 0)
	}
}

// EffectMultiplier is the integer scale applied to a card's effects.
func (h Harmony) EffectMultiplier() int {
	if h == HarmonyChaos {
		return 2
	}
	return 1
}

// PatienceAdjustment returns the harmony delta on patience cost.
func (h Harmony) PatienceAdjustment() int {
	switch h {
	case HarmonyBalanced:
		return -1
	case HarmonyDissonant:
		return 1
	case HarmonyChaos:
		return 2
	default:
		return 0
	}
}

// FaceAdjustment returns the harmony surcharge on face cost.
func (h Harmony) FaceAdjustment() int {
	switch h {
	case HarmonyDissonant:
		return 1
	case HarmonyChaos:
		return 2
	default:
		return 0
	}
}
