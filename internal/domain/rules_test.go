package domain

import (
	"testing"
)

func TestClassifyHarmony(t *testing.T) {
	tests := []struct {
		name     string
		prev     *Element
		cur      Element
		expected Harmony
	}{
		{name: "No previous element", prev: nil, cur: ElementFire, expected: HarmonyNeutral},
		{name: "Same element", prev: ElementPtr(ElementFire), cur: ElementFire, expected: HarmonyNeutral},
		{name: "Wood feeds Fire", prev: ElementPtr(ElementWood), cur: ElementFire, expected: HarmonyBalanced},
		{name: "Water wraps to Wood", prev: ElementPtr(ElementWater), cur: ElementWood, expected: HarmonyBalanced},
		{name: "Wood to Earth is chaos", prev: ElementPtr(ElementWood), cur: ElementEarth, expected: HarmonyChaos},
		{name: "Metal to Wood is chaos", prev: ElementPtr(ElementMetal), cur: ElementWood, expected: HarmonyChaos},
		{name: "Wood to Metal is dissonant", prev: ElementPtr(ElementWood), cur: ElementMetal, expected: HarmonyDissonant},
		{name: "Fire to Wood is dissonant", prev: ElementPtr(ElementFire), cur: ElementWood, expected: HarmonyDissonant},
		{name: "Unknown element", prev: ElementPtr(ElementFire), cur: Element("void"), expected: HarmonyNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyHarmony(tt.prev, tt.cur); got != tt.expected {
				t.Errorf("ClassifyHarmony() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassifyHarmonyCoversEveryDistance(t *testing.T) {
	want := map[int]Harmony{0: HarmonyNeutral, 1: HarmonyBalanced, 2: HarmonyChaos, 3: HarmonyDissonant, 4: HarmonyDissonant}
	for i, a := range ElementCycle {
		for j, b := range ElementCycle {
			dist := (j - i + 5) % 5
			if got := ClassifyHarmony(ElementPtr(a), b); got != want[dist] {
				t.Fatalf("%s -> %s (distance %d) = %s, want %s", a, b, dist, got, want[dist])
			}
		}
	}
}

func TestNextHarmonyStreak(t *testing.T) {
	tests := []struct {
		name   string
		streak int
		h      Harmony
		want   int
	}{
		{name: "balanced climbs", streak: 1, h: HarmonyBalanced, want: 2},
		{name: "balanced caps at threshold", streak: 3, h: HarmonyBalanced, want: 3},
		{name: "chaos resets", streak: 3, h: HarmonyChaos, want: 0},
		{name: "dissonant decays", streak: 2, h: HarmonyDissonant, want: 1},
		{name: "neutral decays", streak: 1, h: HarmonyNeutral, want: 0},
		{name: "decay floors at zero", streak: 0, h: HarmonyDissonant, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextHarmonyStreak(tt.streak, tt.h, 3); got != tt.want {
				t.Fatalf("NextHarmonyStreak(%d, %s) = %d, want %d", tt.streak, tt.h, got, tt.want)
			}
		})
	}
}

func TestHarmonyAdjustments(t *testing.T) {
	tests := []struct {
		h        Harmony
		patience int
		face     int
		mult     int
	}{
		{HarmonyNeutral, 0, 0, 1},
		{HarmonyBalanced, -1, 0, 1},
		{HarmonyDissonant, 1, 1, 1},
		{HarmonyChaos, 2, 2, 2},
	}
	for _, tt := range tests {
		if tt.h.PatienceAdjustment() != tt.patience || tt.h.FaceAdjustment() != tt.face || tt.h.EffectMultiplier() != tt.mult {
			t.Errorf("%s: got (%d, %d, %d), want (%d, %d, %d)", tt.h,
				tt.h.PatienceAdjustment(), tt.h.FaceAdjustment(), tt.h.EffectMultiplier(),
				tt.patience, tt.face, tt.mult)
		}
	}
}
