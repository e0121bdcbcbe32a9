package kernel

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
)

type Rule string

const (
	RuleIntegrity        Rule = "IntegrityMismatch"
	RuleSignature        Rule = "BadSignature"
	RuleUnknownLocation  Rule = "UnknownLocation"
	RuleOwnership        Rule = "OwnershipOrAmountMismatch"
	RuleDoubleSpend      Rule = "DoubleSpend"
	RuleUnbalanced       Rule = "UnbalancedTransaction"
	RuleUnauthorizedMint Rule = "UnauthorizedMint"
)

var (
	ErrRejected = errors.New("transaction rejected")
)

// Verdict is the outcome of validating one transaction. The zero value
// accepts.
type Verdict struct {
	failed mapset.Set
}

func (v *Verdict) fail(rule Rule) {
	if v.failed == nil {
		v.failed = mapset.NewThreadUnsafeSet()
	}
	v.failed.Add(rule)
}

func (v Verdict) OK() bool {
	return v.failed == nil || v.failed.Cardinality() == 0
}

func (v Verdict) Has(rule Rule) bool {
	return v.failed != nil && v.failed.Contains(rule)
}

// Failed lists the broken rules in a stable order.
func (v Verdict) Failed() []Rule {
	if v.failed == nil {
		return nil
	}

	rules := make([]Rule, 0, v.failed.Cardinality())
	for _, r := range v.failed.ToSlice() {
		rules = append(rules, r.(Rule))
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i] < rules[j]
	})

	return rules
}

// Err wraps ErrRejected with the broken rules, nil when the verdict accepts.
func (v Verdict) Err() error {
	if v.OK() {
		return nil
	}

	names := []string{}
	for _, r := range v.Failed() {
		names = append(names, string(r))
	}

	return errors.Wrap(ErrRejected, strings.Join(names, ", "))
}

func (v Verdict) String() string {
	if v.OK() {
		return "accepted"
	}
	return v.Err().Error()
}
