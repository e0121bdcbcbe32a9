package kernel

var (
	_ Validator = &ValidatorT{}
)

// ValidatorT decides admissibility of one transaction against committed
// history. Every rule is evaluated so all failures are reported together.
type ValidatorT struct {
	authority Address
}

func NewValidator(authority Address) Validator {
	return &ValidatorT{
		authority: authority,
	}
}

// Validate checks tx with pub bound to the sender: a key whose address is
// not tx.Sender() fails authenticity even if the signature matches it.
func (v *ValidatorT) Validate(tx Transaction, pub PubKey, history History) Verdict {
	verdict := v.validate(tx, pub, history)
	if pub == nil || pub.Address() != tx.Sender() {
		verdict.fail(RuleSignature)
	}
	return verdict
}

// ValidateArbitraryKey trusts the caller on which key signed tx.
func (v *ValidatorT) ValidateArbitraryKey(tx Transaction, pub PubKey, history History) Verdict {
	return v.validate(tx, pub, history)
}

func (v *ValidatorT) validate(tx Transaction, pub PubKey, history History) Verdict {
	var verdict Verdict

	if !tx.IsValid() || !validAddresses(tx) {
		verdict.fail(RuleIntegrity)
	}

	if !tx.Verify(pub) {
		verdict.fail(RuleSignature)
	}

	if tx.IsMint() {
		if tx.Sender() != v.authority {
			verdict.fail(RuleUnauthorizedMint)
		}
		return verdict
	}

	var (
		sender  = tx.Sender()
		inputs  = tx.Inputs()
		length  = history.Length()
		seen    = make(map[Outpoint]struct{}, len(inputs))
		inSum   = uint64(0)
		outSum  = uint64(0)
		overrun = false
	)

	for _, loc := range inputs {
		out := loc.Outpoint(sender)

		if _, ok := seen[out]; ok || history.IsSpent(out) {
			verdict.fail(RuleDoubleSpend)
		}
		seen[out] = struct{}{}

		var funding Transaction
		if loc.Block < length {
			funding = history.TX(loc.Block, loc.TX)
		}

		if funding == nil {
			verdict.fail(RuleUnknownLocation)
		} else if amount, ok := funding.Outputs()[sender]; !ok || amount != loc.Amount {
			verdict.fail(RuleOwnership)
		}

		if inSum+loc.Amount < inSum {
			overrun = true
		}
		inSum += loc.Amount
	}

	for _, amount := range tx.Outputs() {
		if outSum+amount < outSum {
			overrun = true
		}
		outSum += amount
	}

	if overrun || inSum != outSum {
		verdict.fail(RuleUnbalanced)
	}

	return verdict
}
