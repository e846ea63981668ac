package app

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"bankpulse/internal/domain"
)

// ThemeRule is one keyword cluster. Rule order is the priority order: the
// first rule with any keyword contained in the text wins.
type ThemeRule struct {
	Theme    domain.Theme
	Keywords []string
}

// DefaultThemeRules returns the production clusters, highest priority first.
// Authentication outranks everything: a review mentioning both "login" and
// "crash" is an authentication complaint.
func DefaultThemeRules() []ThemeRule {
	return []ThemeRule{
		{domain.ThemeAuthentication, []string{
			"login", "otp", "sms", "code", "sign", "account", "password",
			"verify", "log", "fingerprint", "face id", "register",
		}},
		{domain.ThemePerformance, []string{
			"slow", "stuck", "load", "wait", "connect", "lag", "hang", "freeze", "speed",
		}},
		{domain.ThemeStability, []string{
			"crash", "close", "bug", "error", "fail", "shut", "glitch", "stopped",
		}},
		{domain.ThemeTransactions, []string{
			"trans", "pay", "send", "transfer", "money", "deposit",
			"telebirr", "recharge", "airtime", "statement",
		}},
		{domain.ThemeUserExperience, []string{
			"ui", "design", "interface", "look", "color", "screen",
			"easy", "hard", "user friendly", "app", "update",
		}},
	}
}

// ThemeClassifier matches all keywords in one automaton pass and picks the
// highest-priority matching rule. Input must already be lower-cased
// (Normalize does); matching is case-sensitive at the byte level.
type ThemeClassifier struct {
	rules    []ThemeRule
	matcher  *ahocorasick.Matcher
	priority []int // pattern index -> rule index
}

func NewThemeClassifier(rules []ThemeRule) *ThemeClassifier {
	c := &ThemeClassifier{rules: rules}
	patterns := make([]string, 0, len(rules)*10)
	seen := make(map[string]struct{})
	for i, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			// A keyword shared by several rules belongs to the first one.
			// The matcher keeps a single index per pattern, so duplicates
			// must be dropped here or they would shadow the earlier rule.
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			patterns = append(patterns, kw)
			c.priority = append(c.priority, i)
		}
	}
	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return c
}

// Classify is total: exactly one theme for any input, General when nothing
// matches.
func (c *ThemeClassifier) Classify(text string) domain.Theme {
	if c.matcher == nil {
		return domain.ThemeGeneral
	}
	best := -1
	for _, hit := range c.matcher.Match([]byte(text)) {
		if ri := c.priority[hit]; best == -1 || ri < best {
			best = ri
		}
	}
	if best == -1 {
		return domain.ThemeGeneral
	}
	return c.rules[best].Theme
}
