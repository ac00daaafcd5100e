// Package engine chains decoding, reference resolution, validation and
// normalization. It is pure and safe for concurrent use.
package engine

import (
	"fmt"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/normalize"
	"github.com/Domenick1991/offercheck/internal/resolver"
	"github.com/Domenick1991/offercheck/internal/schema"
	"github.com/Domenick1991/offercheck/internal/validation"
)

type Result struct {
	// Report carries status and violations; id and timestamps are left
	// for the caller to assign.
	Report domain.Report
	// Payload is the parsed model, without the offers and travelers that
	// failed to parse.
	Payload *domain.Payload
	// Canonical is set only when the report is not Invalid.
	Canonical []byte
}

type Engine struct {
	validator *validation.Validator
}

func New(v *validation.Validator) *Engine {
	return &Engine{validator: v}
}

// NewDefault builds an engine with the default rule set.
func NewDefault() *Engine {
	return New(validation.NewValidator(validation.DefaultRules(validation.DefaultSettings())...))
}

// Run processes one search response. The error is non-nil only for input
// that is not a search response (schema.ErrMalformedDocument).
func (e *Engine) Run(raw []byte) (*Result, error) {
	payload, violations, err := schema.Decode(raw)
	if err != nil {
		return nil, err
	}

	res, refs := resolver.Resolve(payload)
	violations = append(violations, refs...)
	violations = append(violations, e.validator.Validate(&validation.Input{Payload: payload, Resolution: res})...)

	result := &Result{
		Report: domain.Report{
			Status:     domain.StatusOf(violations),
			Violations: violations,
		},
		Payload: payload,
	}
	if result.Report.Status == domain.StatusInvalid {
		return result, nil
	}

	canonical, err := normalize.Normalize(payload)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Canonical = canonical
	return result, nil
}

// RuleIDs lists the configured validation rules in order.
func (e *Engine) RuleIDs() []string {
	return e.validator.RuleIDs()
}
