// Package taxonomy holds the versioned vote vocabulary and every scoring
// threshold as one injected configuration structure, so the aggregator, the
// ranker and the dispatcher can never drift apart.
package taxonomy

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/fx"
)

type Polarity int

const (
	Positive Polarity = iota
	Neutral
	NegativeMild
	NegativeSevere
)

// Tags referenced by threshold policies.
const (
	TagToxic      = "Toxic"
	TagRageQuit   = "Rage Quit"
	TagTeamDamage = "Team Damage"
	TagTrolling   = "Trolling"
	TagAFK        = "AFK"
	TagCheater    = "Cheater"
)

// DefaultWeight is applied at read time to tags that are no longer part of
// the active vocabulary, so aggregation over historical votes keeps working
// when the taxonomy evolves. Unknown tags are still rejected on write.
const DefaultWeight = 3

// WarningRule is one rung of the warning ladder. Rules are evaluated in
// order and only the first match emits a warning.
type WarningRule struct {
	Tag       string
	Threshold int
	Format    string // fmt format taking the matched count
}

// FlagThresholds is the moderation-review policy. It is deliberately a
// separate table from the warning ladder.
type FlagThresholds struct {
	ToxicMin   int
	CheaterMin int
	AFKMin     int
}

// RiskScore orders flagged subjects for moderator attention.
func (f FlagThresholds) RiskScore(toxicCount, cheaterCount int) int {
	return toxicCount + 2*cheaterCount
}

type Config struct {
	weights  map[string]int
	polarity map[string]Polarity
	positive map[string]bool
	negative map[string]bool

	ladder []WarningRule
	flags  FlagThresholds

	window   time.Duration
	minVotes int
}

// Default is the canonical taxonomy revision. Weights, thresholds and
// message formats are part of the contract and must not be altered.
func Default() *Config {
	weights := map[string]int{
		// Positive (5)
		"Team Player":   5,
		"Clutch Master": 5,
		"Good Comms":    5,
		"IGL Material":  5,
		// Good (4)
		"Skilled":       4,
		"Entry Fragger": 4,
		// Neutral (3)
		"Silent":     3,
		"Eco Hunter": 3,
		// Bad (2)
		"Force Buyer": 2,
		"Lurk Only":   2,
		"Baiter":      2,
		// Very Bad (1)
		TagToxic:      1,
		TagRageQuit:   1,
		TagTeamDamage: 1,
		TagTrolling:   1,
		TagAFK:        1,
		TagCheater:    1,
	}

	polarity := make(map[string]Polarity, len(weights))
	for tag, w := range weights {
		switch w {
		case 5, 4:
			polarity[tag] = Positive
		case 3:
			polarity[tag] = Neutral
		case 2:
			polarity[tag] = NegativeMild
		default:
			polarity[tag] = NegativeSevere
		}
	}

	positive := map[string]bool{
		"Team Player":   true,
		"Clutch Master": true,
		"Good Comms":    true,
		"Skilled":       true,
		"IGL Material":  true,
		"Entry Fragger": true,
	}
	negative := map[string]bool{
		TagToxic:      true,
		TagRageQuit:   true,
		TagCheater:    true,
		TagAFK:        true,
		TagTeamDamage: true,
		TagTrolling:   true,
		"Baiter":      true,
	}

	return &Config{
		weights:  weights,
		polarity: polarity,
		positive: positive,
		negative: negative,
		ladder: []WarningRule{
			{Tag: TagCheater, Threshold: 5, Format: "WARNING: Reported as cheater by %d users!"},
			{Tag: TagTeamDamage, Threshold: 8, Format: "Team killer detected - %d reports this month"},
			{Tag: TagTrolling, Threshold: 10, Format: "Griefer alert: %d trolling reports"},
			{Tag: TagToxic, Threshold: 10, Format: "Flagged as toxic by %d users in the last month"},
			{Tag: TagRageQuit, Threshold: 7, Format: "Serial rage quitter - %d reports"},
			{Tag: TagAFK, Threshold: 8, Format: "Frequently AFK - reported %d times this month"},
		},
		flags: FlagThresholds{
			ToxicMin:   5,
			CheaterMin: 3,
			AFKMin:     5,
		},
		window:   30 * 24 * time.Hour,
		minVotes: 5,
	}
}

// Valid reports whether tag belongs to the active vocabulary.
func (c *Config) Valid(tag string) bool {
	_, ok := c.weights[tag]
	return ok
}

// Weight returns the reputation weight for tag. Tags outside the active
// vocabulary score DefaultWeight so historical votes keep aggregating.
func (c *Config) Weight(tag string) int {
	if w, ok := c.weights[tag]; ok {
		return w
	}
	return DefaultWeight
}

func (c *Config) PolarityOf(tag string) (Polarity, bool) {
	p, ok := c.polarity[tag]
	return p, ok
}

// Tags lists the active vocabulary in a stable order.
func (c *Config) Tags() []string {
	tags := make([]string, 0, len(c.weights))
	for tag := range c.weights {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// PositiveTags lists the tags that trigger a positive notification.
func (c *Config) PositiveTags() []string {
	tags := make([]string, 0, len(c.positive))
	for tag := range c.positive {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsPositive and IsNegative classify a tag for notification purposes. The
// two sets are disjoint; tags in neither set trigger nothing.
func (c *Config) IsPositive(tag string) bool { return c.positive[tag] }

func (c *Config) IsNegative(tag string) bool { return c.negative[tag] }

// Warning walks the ladder in priority order against per-tag counts and
// returns the first matching warning, or "" when no rule fires.
func (c *Config) Warning(counts map[string]int) string {
	for _, rule := range c.ladder {
		if n := counts[rule.Tag]; n >= rule.Threshold {
			return fmt.Sprintf(rule.Format, n)
		}
	}
	return ""
}

func (c *Config) Flags() FlagThresholds { return c.flags }

// Window is the rolling period bounding every aggregation.
func (c *Config) Window() time.Duration { return c.window }

// MinLeaderboardVotes is the floor below which a player does not qualify
// for the top-rated leaderboard.
func (c *Config) MinLeaderboardVotes() int { return c.minVotes }

var Module = fx.Provide(Default)
