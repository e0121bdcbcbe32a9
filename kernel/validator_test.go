package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	authority PrivKey
	users     []PrivKey
	chain     Chain
	validator Validator
}

func newFixture(t *testing.T, scheme Scheme, users int) *fixture {
	t.Helper()

	chain, err := NewChain(NewMemDB(), CacheSize)
	require.NoError(t, err)

	f := &fixture{
		authority: newTestKey(t, scheme),
		chain:     chain,
	}
	for i := 0; i < users; i++ {
		f.users = append(f.users, newTestKey(t, scheme))
	}
	f.validator = NewValidator(f.authority.PubKey().Address())

	return f
}

func (f *fixture) addr(i int) Address {
	return f.users[i].PubKey().Address()
}

func (f *fixture) commit(t *testing.T, txs ...Transaction) Block {
	t.Helper()

	block := NewBlock(f.authority, f.chain.Length(), f.chain.LastHash(), txs)
	require.NoError(t, f.chain.Append(block))
	return block
}

// fund commits block 0 with a mint {u0:10, u1:20} and block 1 where u0
// spends its allocation as {u2:5, u0:5}.
func (f *fixture) fund(t *testing.T) {
	t.Helper()

	f.commit(t, NewTransaction(f.authority, nil, map[Address]uint64{
		f.addr(0): 10,
		f.addr(1): 20,
	}))
	f.commit(t, NewTransaction(f.users[0],
		[]Location{{Block: 0, TX: 0, Amount: 10}},
		map[Address]uint64{f.addr(2): 5, f.addr(0): 5},
	))
}

// forged builds a transaction claiming sender but signed by signer.
func forged(signer PrivKey, sender Address, inputs []Location, outputs map[Address]uint64) Transaction {
	tx := &TransactionT{
		sender:  sender,
		inputs:  copyInputs(inputs),
		outputs: copyOutputs(outputs),
	}
	tx.hash = tx.newHash()
	tx.sign = signer.Sign(tx.hash)
	return tx
}

func TestValidate(t *testing.T) {
	for _, scheme := range testSchemes {
		t.Run(string(scheme), func(t *testing.T) {
			f := newFixture(t, scheme, 4)
			f.fund(t)

			u1Funds := []Location{{Block: 0, TX: 0, Amount: 20}}

			tests := []struct {
				name   string
				tx     func() Transaction
				pub    PubKey
				expect []Rule
			}{
				{
					name: "transfer",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 20})
					},
					pub: f.users[1].PubKey(),
				},
				{
					name: "transfer with change",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 12, f.addr(1): 8})
					},
					pub: f.users[1].PubKey(),
				},
				{
					name: "spend change",
					tx: func() Transaction {
						return NewTransaction(f.users[0],
							[]Location{{Block: 1, TX: 0, Amount: 5}},
							map[Address]uint64{f.addr(3): 5})
					},
					pub: f.users[0].PubKey(),
				},
				{
					name: "authority mint",
					tx: func() Transaction {
						return NewTransaction(f.authority, nil, map[Address]uint64{f.addr(3): 100})
					},
					pub: f.authority.PubKey(),
				},
				{
					name: "tampered outputs",
					tx: func() Transaction {
						tx := NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 20}).(*TransactionT)
						tx.outputs[f.addr(3)] = 25
						return tx
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleIntegrity, RuleUnbalanced},
				},
				{
					name: "wrong key",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 20})
					},
					pub:    f.users[3].PubKey(),
					expect: []Rule{RuleSignature},
				},
				{
					name: "no key",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 20})
					},
					expect: []Rule{RuleSignature},
				},
				{
					name: "signed by a key other than the sender's",
					tx: func() Transaction {
						return forged(f.users[3], f.addr(1), u1Funds, map[Address]uint64{f.addr(3): 20})
					},
					pub:    f.users[3].PubKey(),
					expect: []Rule{RuleSignature},
				},
				{
					name: "block past the tip",
					tx: func() Transaction {
						return NewTransaction(f.users[1],
							[]Location{{Block: 5, TX: 0, Amount: 20}},
							map[Address]uint64{f.addr(3): 20})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleUnknownLocation},
				},
				{
					name: "tx past the block end",
					tx: func() Transaction {
						return NewTransaction(f.users[1],
							[]Location{{Block: 0, TX: 7, Amount: 10}},
							map[Address]uint64{f.addr(3): 10})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleUnknownLocation},
				},
				{
					name: "allocation of another owner",
					tx: func() Transaction {
						return NewTransaction(f.users[3], u1Funds, map[Address]uint64{f.addr(3): 20})
					},
					pub:    f.users[3].PubKey(),
					expect: []Rule{RuleOwnership},
				},
				{
					name: "claimed amount differs from the allocation",
					tx: func() Transaction {
						return NewTransaction(f.users[1],
							[]Location{{Block: 0, TX: 0, Amount: 25}},
							map[Address]uint64{f.addr(3): 25})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleOwnership},
				},
				{
					name: "allocation spent in an earlier block",
					tx: func() Transaction {
						return NewTransaction(f.users[0],
							[]Location{{Block: 0, TX: 0, Amount: 10}},
							map[Address]uint64{f.addr(3): 10})
					},
					pub:    f.users[0].PubKey(),
					expect: []Rule{RuleDoubleSpend},
				},
				{
					name: "same allocation twice in one transaction",
					tx: func() Transaction {
						return NewTransaction(f.users[1],
							append(u1Funds, u1Funds...),
							map[Address]uint64{f.addr(3): 40})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleDoubleSpend},
				},
				{
					name: "outputs exceed inputs",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 21})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleUnbalanced},
				},
				{
					name: "inputs exceed outputs",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 19})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleUnbalanced},
				},
				{
					name: "outputs overflow",
					tx: func() Transaction {
						return NewTransaction(f.users[1], u1Funds, map[Address]uint64{
							f.addr(3): math.MaxUint64,
							f.addr(2): 21,
						})
					},
					pub:    f.users[1].PubKey(),
					expect: []Rule{RuleUnbalanced},
				},
				{
					name: "mint by a user",
					tx: func() Transaction {
						return NewTransaction(f.users[0], nil, map[Address]uint64{f.addr(0): 100})
					},
					pub:    f.users[0].PubKey(),
					expect: []Rule{RuleUnauthorizedMint},
				},
				{
					name: "every failure is reported",
					tx: func() Transaction {
						return NewTransaction(f.users[0], []Location{
							{Block: 0, TX: 0, Amount: 10},
							{Block: 9, TX: 0, Amount: 1},
						}, map[Address]uint64{f.addr(3): 100})
					},
					pub:    f.users[3].PubKey(),
					expect: []Rule{RuleSignature, RuleDoubleSpend, RuleUnbalanced, RuleUnknownLocation},
				},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					verdict := f.validator.Validate(tt.tx(), tt.pub, f.chain)
					if len(tt.expect) == 0 {
						assert.True(t, verdict.OK(), verdict.String())
						return
					}
					assert.ElementsMatch(t, tt.expect, verdict.Failed())
				})
			}
		})
	}
}

// The arbitrary key variant accepts a signature from any key the caller
// names. Submit never uses it.
func TestValidateArbitraryKeyTrustsCaller(t *testing.T) {
	f := newFixture(t, SchemeSecp256k1, 4)
	f.fund(t)

	u1Funds := []Location{{Block: 0, TX: 0, Amount: 20}}
	tx := forged(f.users[3], f.addr(1), u1Funds, map[Address]uint64{f.addr(3): 20})

	assert.True(t, f.validator.ValidateArbitraryKey(tx, f.users[3].PubKey(), f.chain).OK())
	assert.True(t, f.validator.Validate(tx, f.users[3].PubKey(), f.chain).Has(RuleSignature))

	honest := NewTransaction(f.users[1], u1Funds, map[Address]uint64{f.addr(3): 20})
	assert.True(t, f.validator.ValidateArbitraryKey(honest, f.users[1].PubKey(), f.chain).OK())
	assert.True(t, f.validator.ValidateArbitraryKey(honest, f.users[2].PubKey(), f.chain).Has(RuleSignature))
}

func TestValidateDoesNotMutateHistory(t *testing.T) {
	f := newFixture(t, SchemeSecp256k1, 4)
	f.fund(t)

	tx := NewTransaction(f.users[1],
		[]Location{{Block: 0, TX: 0, Amount: 20}},
		map[Address]uint64{f.addr(3): 20})

	for i := 0; i < 3; i++ {
		assert.True(t, f.validator.Validate(tx, f.users[1].PubKey(), f.chain).OK())
	}
	assert.Equal(t, Height(2), f.chain.Length())
	assert.False(t, f.chain.IsSpent(Outpoint{Block: 0, TX: 0, Owner: f.addr(1)}))
}

// Inflating a real allocation used to pass as long as the outputs matched
// the inflated claim. The claim is now checked against the allocation.
func TestValidateRejectsInflatedClaim(t *testing.T) {
	f := newFixture(t, SchemeSecp256k1, 4)
	f.fund(t)

	inflated := NewTransaction(f.users[1],
		[]Location{{Block: 0, TX: 0, Amount: 1000}},
		map[Address]uint64{f.addr(1): 1000})

	verdict := f.validator.Validate(inflated, f.users[1].PubKey(), f.chain)
	assert.Equal(t, []Rule{RuleOwnership}, verdict.Failed())
}

func TestValidateRejectsNonUTF8Address(t *testing.T) {
	f := newFixture(t, SchemeSecp256k1, 3)
	f.fund(t)

	tx := NewTransaction(f.users[1],
		[]Location{{Block: 0, TX: 0, Amount: 20}},
		map[Address]uint64{"\xff": 10, f.addr(1): 10},
	)
	verdict := f.validator.Validate(tx, f.users[1].PubKey(), f.chain)
	assert.Equal(t, []Rule{RuleIntegrity}, verdict.Failed())
}
