// Package pricing holds the override gate for exceptional sales.
package pricing

import (
	"errors"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AuthorizationVerifier checks an override code against the configured secret
type AuthorizationVerifier interface {
	Verify(code string) bool
}

// Reason names the rule that required an override
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonOversell  Reason = "OVERSELL"
	ReasonBelowCost Reason = "BELOW_COST"
)

// Decision is the outcome of evaluating a sale request
type Decision struct {
	Allowed    bool
	Overridden bool
	Reasons    []Reason
	Err        error
}

// Request is one sale request as seen by the policy
type Request struct {
	Product           *catalog.Product
	Quantity          int64
	Price             decimal.Decimal
	Available         int64
	AuthorizationCode string
}

// Policy decides whether a sale may go ahead.
//
// Rule A: quantity above available stock needs a valid code.
// Rule B: price below the product's cost price needs a valid code.
// Passing the gate never lifts the zero floor on stock; that is enforced at deduction.
type Policy struct {
	verifier AuthorizationVerifier
}

// NewPolicy creates a new Policy
func NewPolicy(verifier AuthorizationVerifier) *Policy {
	return &Policy{verifier: verifier}
}

// Evaluate applies both rules to the request
func (p *Policy) Evaluate(req Request) Decision {
	var reasons []Reason
	var ruleErr error
	if req.Quantity > req.Available {
		reasons = append(reasons, ReasonOversell)
		ruleErr = shared.ErrInsufficientStockUnauthorized
	}
	if req.Product != nil && req.Product.IsBelowCost(req.Price) {
		reasons = append(reasons, ReasonBelowCost)
		if ruleErr == nil {
			ruleErr = shared.ErrBelowCostUnauthorized
		}
	}

	if len(reasons) == 0 {
		return Decision{Allowed: true}
	}

	if req.AuthorizationCode == "" {
		return Decision{Reasons: reasons, Err: ruleErr}
	}
	if p.verifier == nil || !p.verifier.Verify(req.AuthorizationCode) {
		return Decision{Reasons: reasons, Err: errors.Join(ruleErr, shared.ErrInvalidAuthorization)}
	}
	return Decision{Allowed: true, Overridden: true, Reasons: reasons}
}
