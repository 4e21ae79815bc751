// Package pricing selects the financing coefficient that applies to a
// simulation and computes the estimated monthly installment.
package pricing

import (
	"math"

	"github.com/nossamoto/backend/internal/model"
)

// AdministrativeFee is added to the financed amount before the coefficient is
// applied. It is expressed in the same unit as the price.
const AdministrativeFee int64 = 500

// Input carries the four values the installment depends on.
type Input struct {
	Price       int64
	DownPayment int64
	Term        int
	Motorcycle  string
}

// Quote is the outcome of a resolution. Available is false when no rule
// matches or the input is outside its domain.
type Quote struct {
	Available      bool    `json:"available"`
	Installment    int64   `json:"installment"`
	Lender         string  `json:"lender"`
	Financed       int64   `json:"financed,omitempty"`
	Base           int64   `json:"base,omitempty"`
	DownPaymentPct float64 `json:"down_payment_pct,omitempty"`
	RuleID         string  `json:"rule_id,omitempty"`
}

// NoEstimate is the empty quote.
var NoEstimate = Quote{}

// Valid reports whether in is inside the resolver's domain.
func (in Input) Valid() bool {
	return in.Price > 0 &&
		in.DownPayment >= 0 &&
		in.DownPayment < in.Price &&
		in.Term > 0 &&
		in.Motorcycle != ""
}

// DownPaymentPct returns the down payment as a percentage of the price.
func (in Input) DownPaymentPct() float64 {
	return float64(in.DownPayment) / float64(in.Price) * 100
}

// Resolve picks the applicable rule and prices the installment. It never
// falls back to a rule that does not match.
func Resolve(in Input, rules []*model.CoefficientRule) Quote {
	if !in.Valid() {
		return NoEstimate
	}
	pct := in.DownPaymentPct()

	rule := Match(rules, in.Term, pct, in.Motorcycle)
	if rule == nil {
		return NoEstimate
	}

	financed := in.Price - in.DownPayment
	base := financed + AdministrativeFee
	return Quote{
		Available:      true,
		Installment:    int64(math.Round(float64(base) * rule.Value)),
		Lender:         rule.Bank,
		Financed:       financed,
		Base:           base,
		DownPaymentPct: pct,
		RuleID:         rule.ID,
	}
}

// Match returns the best rule for (term, pct, motorcycle), or nil.
// A model-specific rule beats the wildcard; among equals the highest lower
// bound wins; remaining ties go to the earliest rule in the table.
func Match(rules []*model.CoefficientRule, term int, pct float64, motorcycle string) *model.CoefficientRule {
	var best *model.CoefficientRule
	for _, r := range rules {
		if r.Term != term || !r.Covers(pct) || !r.AppliesTo(motorcycle) {
			continue
		}
		if best == nil || preferred(r, best) {
			best = r
		}
	}
	return best
}

func preferred(a, b *model.CoefficientRule) bool {
	if a.IsWildcard() != b.IsWildcard() {
		return !a.IsWildcard()
	}
	return a.DownPaymentMin > b.DownPaymentMin
}
