package taxonomy

import "testing"

func TestWeights(t *testing.T) {
	cfg := Default()

	tests := []struct {
		tag    string
		weight int
	}{
		{"Team Player", 5},
		{"Clutch Master", 5},
		{"Good Comms", 5},
		{"IGL Material", 5},
		{"Skilled", 4},
		{"Entry Fragger", 4},
		{"Silent", 3},
		{"Eco Hunter", 3},
		{"Force Buyer", 2},
		{"Lurk Only", 2},
		{"Baiter", 2},
		{"Toxic", 1},
		{"Rage Quit", 1},
		{"Team Damage", 1},
		{"Trolling", 1},
		{"AFK", 1},
		{"Cheater", 1},
	}
	for _, tt := range tests {
		if got := cfg.Weight(tt.tag); got != tt.weight {
			t.Errorf("Weight(%q) = %d, want %d", tt.tag, got, tt.weight)
		}
		if !cfg.Valid(tt.tag) {
			t.Errorf("Valid(%q) = false, want true", tt.tag)
		}
	}

	if got := len(cfg.Tags()); got != len(tests) {
		t.Errorf("vocabulary size = %d, want %d", got, len(tests))
	}
}

func TestWeightUnknownTag(t *testing.T) {
	cfg := Default()

	if cfg.Valid("Retired Tag") {
		t.Error("Valid should reject tags outside the vocabulary")
	}
	if got := cfg.Weight("Retired Tag"); got != DefaultWeight {
		t.Errorf("Weight for unknown tag = %d, want %d", got, DefaultWeight)
	}
}

func TestWarningLadder(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name   string
		counts map[string]int
		want   string
	}{
		{
			name:   "no counts",
			counts: map[string]int{},
			want:   "",
		},
		{
			name:   "below every threshold",
			counts: map[string]int{"Cheater": 4, "Toxic": 9, "AFK": 7},
			want:   "",
		},
		{
			name:   "cheater at threshold",
			counts: map[string]int{"Cheater": 5},
			want:   "WARNING: Reported as cheater by 5 users!",
		},
		{
			name:   "cheater outranks toxic",
			counts: map[string]int{"Cheater": 6, "Toxic": 11},
			want:   "WARNING: Reported as cheater by 6 users!",
		},
		{
			name:   "team damage outranks trolling",
			counts: map[string]int{"Team Damage": 8, "Trolling": 15},
			want:   "Team killer detected - 8 reports this month",
		},
		{
			name:   "trolling",
			counts: map[string]int{"Trolling": 10},
			want:   "Griefer alert: 10 trolling reports",
		},
		{
			name:   "toxic",
			counts: map[string]int{"Toxic": 12},
			want:   "Flagged as toxic by 12 users in the last month",
		},
		{
			name:   "rage quit",
			counts: map[string]int{"Rage Quit": 7},
			want:   "Serial rage quitter - 7 reports",
		},
		{
			name:   "afk",
			counts: map[string]int{"AFK": 8},
			want:   "Frequently AFK - reported 8 times this month",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Warning(tt.counts); got != tt.want {
				t.Errorf("Warning() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotificationSetsDisjoint(t *testing.T) {
	cfg := Default()

	positive := []string{"Team Player", "Clutch Master", "Good Comms", "Skilled", "IGL Material", "Entry Fragger"}
	negative := []string{"Toxic", "Rage Quit", "Cheater", "AFK", "Team Damage", "Trolling", "Baiter"}

	for _, tag := range positive {
		if !cfg.IsPositive(tag) {
			t.Errorf("IsPositive(%q) = false, want true", tag)
		}
		if cfg.IsNegative(tag) {
			t.Errorf("IsNegative(%q) = true, want false", tag)
		}
	}
	for _, tag := range negative {
		if !cfg.IsNegative(tag) {
			t.Errorf("IsNegative(%q) = false, want true", tag)
		}
		if cfg.IsPositive(tag) {
			t.Errorf("IsPositive(%q) = true, want false", tag)
		}
	}

	// Neutral and mild-negative weight tags trigger nothing.
	for _, tag := range []string{"Silent", "Eco Hunter", "Force Buyer", "Lurk Only"} {
		if cfg.IsPositive(tag) || cfg.IsNegative(tag) {
			t.Errorf("%q should be in neither notification set", tag)
		}
	}
}

func TestFlagThresholds(t *testing.T) {
	cfg := Default()
	flags := cfg.Flags()

	if flags.ToxicMin != 5 || flags.CheaterMin != 3 || flags.AFKMin != 5 {
		t.Errorf("Flags() = %+v, want toxic 5, cheater 3, afk 5", flags)
	}
	if got := flags.RiskScore(6, 3); got != 12 {
		t.Errorf("RiskScore(6, 3) = %d, want 12", got)
	}
	if got := flags.RiskScore(0, 0); got != 0 {
		t.Errorf("RiskScore(0, 0) = %d, want 0", got)
	}
}
