package domain

import "testing"

var testLadder = Ladder{
	{TierNumber: 0, FavorRequired: 25, TierName: "Ignored"},
	{TierNumber: 1, FavorRequired: 40, TierName: "Heard"},
	{TierNumber: 2, FavorRequired: 60, TierName: "Respected"},
	{TierNumber: 3, FavorRequired: 0, TierName: "Revered"},
}

func TestStandingAdd(t *testing.T) {
	tests := []struct {
		name   string
		start  Standing
		amount int
		want   Standing
	}{
		{name: "stays within tier", start: Standing{0, 5}, amount: 10, want: Standing{0, 15}},
		{name: "exact requirement advances with zero carry", start: Standing{0, 20}, amount: 5, want: Standing{1, 0}},
		{name: "overflow carries into next tier", start: Standing{0, 20}, amount: 30, want: Standing{1, 25}},
		{name: "advances multiple tiers", start: Standing{0, 0}, amount: 25 + 40 + 10, want: Standing{2, 10}},
		{name: "accumulates past the top tier", start: Standing{2, 50}, amount: 100, want: Standing{3, 90}},
		{name: "top tier keeps accumulating", start: Standing{3, 90}, amount: 7, want: Standing{3, 97}},
		{name: "negative amount removes", start: Standing{1, 5}, amount: -5, want: Standing{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.Add(testLadder, tt.amount); got != tt.want {
				t.Fatalf("Add(%d) = %+v, want %+v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestStandingRemove(t *testing.T) {
	tests := []struct {
		name   string
		start  Standing
		amount int
		want   Standing
	}{
		{name: "within tier", start: Standing{1, 10}, amount: 4, want: Standing{1, 6}},
		{name: "demotes carrying deficit", start: Standing{1, 5}, amount: 10, want: Standing{0, 20}},
		{name: "demotes multiple tiers", start: Standing{2, 5}, amount: 5 + 40 + 3, want: Standing{0, 22}},
		{name: "floors at tier zero", start: Standing{1, 5}, amount: 500, want: Standing{0, 0}},
		{name: "tier zero never negative", start: Standing{0, 3}, amount: 4, want: Standing{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Remove(testLadder, tt.amount)
			if got != tt.want {
				t.Fatalf("Remove(%d) = %+v, want %+v", tt.amount, got, tt.want)
			}
			if got.FavorInCurrentTier < 0 {
				t.Fatalf("favor went negative: %+v", got)
			}
		})
	}
}

func TestStandingProgress(t *testing.T) {
	p := Standing{1, 12}.Progress(testLadder)
	if p.Tier != 1 || p.TierName != "Heard" || p.Favor != 12 || p.Required != 40 || p.AtMax {
		t.Fatalf("unexpected progress: %+v", p)
	}
	top := Standing{3, 4}.Progress(testLadder)
	if !top.AtMax || top.Required != 0 {
		t.Fatalf("expected top tier progress, got %+v", top)
	}
}
