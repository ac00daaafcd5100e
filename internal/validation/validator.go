// Package validation holds the consistency rules run over a resolved
// payload. A Validator is built from an explicit, ordered list of rules;
// every rule runs and every violation is kept.
package validation

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/resolver"
)

var ErrUnknownRule = errors.New("unknown rule")

// Input is what every rule sees. Rules must not modify it.
type Input struct {
	Payload    *domain.Payload
	Resolution *resolver.Resolution
}

type Rule interface {
	// ID is the rule id used in reports and configuration.
	ID() string
	Check(in *Input) []domain.Violation
}

type Validator struct {
	rules []Rule
}

func NewValidator(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate runs the rules in order and concatenates their findings.
func (v *Validator) Validate(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, r := range v.rules {
		out = append(out, r.Check(in)...)
	}
	return out
}

func (v *Validator) RuleIDs() []string {
	return lo.Map(v.rules, func(r Rule, _ int) string { return r.ID() })
}

// Settings tune rules that take parameters.
type Settings struct {
	// PriceTolerance is the allowed difference in minor units.
	PriceTolerance int
}

func DefaultSettings() Settings {
	return Settings{PriceTolerance: 1}
}

// DefaultRules is the standard rule set in its standard order.
func DefaultRules(s Settings) []Rule {
	return []Rule{
		SegmentCoverage{},
		PriceArithmetic{Tolerance: s.PriceTolerance},
		CurrencyConsistency{},
		Chronology{},
		StopCount{},
		HolderUniqueness{},
		DurationConsistency{},
		UnrecognizedValues{},
	}
}

func allRules(s Settings) []Rule {
	return append(DefaultRules(s), CabinBrand{})
}

// KnownRuleIDs lists every rule id RulesByID accepts.
func KnownRuleIDs() []string {
	return lo.Map(allRules(DefaultSettings()), func(r Rule, _ int) string { return r.ID() })
}

// RulesByID builds a rule list from configured ids, keeping their order.
// An empty list selects DefaultRules.
func RulesByID(ids []string, s Settings) ([]Rule, error) {
	if len(ids) == 0 {
		return DefaultRules(s), nil
	}
	known := lo.KeyBy(allRules(s), func(r Rule) string { return r.ID() })
	rules := make([]Rule, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		r, ok := known[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, id)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
