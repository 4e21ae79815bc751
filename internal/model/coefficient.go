package model

import (
	"sort"
	"time"
)

const (
	// WildcardMotorcycle scopes a rule to every model in the catalog.
	WildcardMotorcycle = "Todos"
	// UnknownLender is the bank label given to legacy rules stored without one.
	UnknownLender = "N/A"
)

// CoefficientRule is a financing multiplier applicable to one term, an
// inclusive down-payment percentage range and a motorcycle scope.
type CoefficientRule struct {
	ID             string    `json:"id"`
	Term           int       `json:"term"`
	DownPaymentMin float64   `json:"down_payment_min"`
	DownPaymentMax float64   `json:"down_payment_max"`
	Value          float64   `json:"value"`
	Motorcycle     string    `json:"motorcycle"`
	Bank           string    `json:"bank"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CoefficientRulePatch holds fields that can be updated on a rule.
type CoefficientRulePatch struct {
	Term           *int
	DownPaymentMin *float64
	DownPaymentMax *float64
	Value          *float64
	Motorcycle     *string
	Bank           *string
}

// IsWildcard reports whether the rule applies to all models.
func (c *CoefficientRule) IsWildcard() bool {
	return c.Motorcycle == WildcardMotorcycle
}

// Covers reports whether pct lies within [DownPaymentMin, DownPaymentMax].
func (c *CoefficientRule) Covers(pct float64) bool {
	return pct >= c.DownPaymentMin && pct <= c.DownPaymentMax
}

// AppliesTo reports whether the rule is scoped to the named motorcycle,
// either directly or through the wildcard.
func (c *CoefficientRule) AppliesTo(motorcycle string) bool {
	return c.Motorcycle == motorcycle || c.IsWildcard()
}

// SortCoefficientRules orders rules by term, then by lower bound. Rules with
// equal keys keep their relative order.
func SortCoefficientRules(rules []*CoefficientRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Term != rules[j].Term {
			return rules[i].Term < rules[j].Term
		}
		return rules[i].DownPaymentMin < rules[j].DownPaymentMin
	})
}

// BackfillCoefficientDefaults fills the scope and lender of rules written
// before those fields existed. It reports whether any rule was changed.
func BackfillCoefficientDefaults(rules []*CoefficientRule) bool {
	changed := false
	for _, r := range rules {
		if r.Motorcycle == "" {
			r.Motorcycle = WildcardMotorcycle
			changed = true
		}
		if r.Bank == "" {
			r.Bank = UnknownLender
			changed = true
		}
	}
	return changed
}
