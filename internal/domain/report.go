package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Status string

const (
	StatusValid             Status = "Valid"
	StatusValidWithWarnings Status = "ValidWithWarnings"
	StatusInvalid           Status = "Invalid"
)

// Rule and error identifiers as they appear in reports.
const (
	RuleMalformedDuration       = "MalformedDuration"
	RuleMalformedTimestamp      = "MalformedTimestamp"
	RuleMalformedAmount         = "MalformedAmount"
	RuleInvalidCode             = "InvalidCode"
	RuleMissingField            = "MissingField"
	RuleDuplicateSegmentID      = "DuplicateSegmentId"
	RuleDuplicateTravelerID     = "DuplicateTravelerId"
	RuleDanglingReference       = "DanglingReference"
	RuleSegmentCoverage         = "SegmentCoverage"
	RulePriceMismatch           = "PriceMismatch"
	RuleCurrencyMismatch        = "CurrencyMismatch"
	RuleChronologyViolation     = "ChronologyViolation"
	RuleInconsistentStopCount   = "InconsistentStopCount"
	RuleDuplicateHolderDocument = "DuplicateHolderDocument"
	RuleDurationMismatch        = "DurationMismatch"
	RuleUnrecognizedValue       = "UnrecognizedValue"
	RuleCabinBrandMismatch      = "CabinBrandMismatch"
)

type Violation struct {
	RuleID   string   `json:"ruleId"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func Errorf(ruleID, path, format string, args ...any) Violation {
	return Violation{RuleID: ruleID, Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)}
}

func Warnf(ruleID, path, format string, args ...any) Violation {
	return Violation{RuleID: ruleID, Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, args...)}
}

type Report struct {
	ID         string      `json:"id"`
	Digest     string      `json:"digest,omitempty"`
	Status     Status      `json:"status"`
	Violations []Violation `json:"violations"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// StatusOf derives the overall status: any error makes the payload
// Invalid, warnings alone make it ValidWithWarnings.
func StatusOf(violations []Violation) Status {
	status := StatusValid
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			return StatusInvalid
		case SeverityWarning:
			status = StatusValidWithWarnings
		}
	}
	return status
}

// Count returns how many violations carry the given rule id.
func (r *Report) Count(ruleID string) int {
	n := 0
	for _, v := range r.Violations {
		if v.RuleID == ruleID {
			n++
		}
	}
	return n
}

// Outcome is the product of validating one payload: the report plus, when
// the payload is not Invalid, its canonical form.
type Outcome struct {
	Report    Report          `json:"report"`
	Canonical json.RawMessage `json:"canonical,omitempty"`
}
