package inventory

import (
	"fmt"

	"github.com/globomantics/inventory-backend/pkg/errors"
)

// ChangePolicy gates delta-style stock mutations before they reach the ledger.
// The service owns the policy; the repository never sees it.
type ChangePolicy struct {
	// MaxAbsChange caps a single mutation in either direction.
	MaxAbsChange int
	// ReasonBelow requires a reason for reductions past this (negative) bound.
	ReasonBelow int
	// DetailedReasonAbove requires a detailed reason once |change| passes this bound.
	DetailedReasonAbove int
	// DetailedReasonMinLen is the minimum length of a detailed reason.
	DetailedReasonMinLen int
}

// DefaultChangePolicy mirrors the production limits on manual stock adjustments.
func DefaultChangePolicy() ChangePolicy {
	return ChangePolicy{
		MaxAbsChange:         100000,
		ReasonBelow:          -50,
		DetailedReasonAbove:  200,
		DetailedReasonMinLen: 20,
	}
}

// ValidateDelta checks a v1 quantity change against the policy.
func (p ChangePolicy) ValidateDelta(change int, reason *string) error {
	abs := change
	if abs < 0 {
		abs = -abs
	}

	if abs > p.MaxAbsChange {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("quantity change cannot exceed %d units in a single operation", p.MaxAbsChange)).
			WithDetails(map[string]any{"field": "quantity_change", "max": p.MaxAbsChange})
	}

	if change < p.ReasonBelow && !hasReason(reason) {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("stock reductions of more than %d units require a reason", -p.ReasonBelow)).
			WithDetails(map[string]any{"field": "reason"})
	}

	if abs > p.DetailedReasonAbove && reasonLen(reason) < p.DetailedReasonMinLen {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("changes of more than %d units require a detailed reason (at least %d characters)",
				p.DetailedReasonAbove, p.DetailedReasonMinLen)).
			WithDetails(map[string]any{"field": "reason", "min_length": p.DetailedReasonMinLen})
	}

	return nil
}

// ValidateOperation checks a v2 request's operation and value.
func (p ChangePolicy) ValidateOperation(raw string, value int) (OperationType, error) {
	op, ok := ParseOperationType(raw)
	if !ok {
		return "", errors.New(errors.CodeValidation, "operation must be one of INCREMENT, DECREMENT, SET").
			WithDetails(map[string]any{"field": "operation"})
	}

	if value < 0 {
		return "", errors.New(errors.CodeValidation, "value must be zero or positive").
			WithDetails(map[string]any{"field": "value"})
	}

	if value > p.MaxAbsChange {
		return "", errors.New(errors.CodeValidation,
			fmt.Sprintf("value cannot exceed %d units in a single operation", p.MaxAbsChange)).
			WithDetails(map[string]any{"field": "value", "max": p.MaxAbsChange})
	}

	return op, nil
}

func hasReason(reason *string) bool {
	return reason != nil && *reason != ""
}

func reasonLen(reason *string) int {
	if reason == nil {
		return 0
	}
	return len(*reason)
}
