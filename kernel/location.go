package kernel

import "fmt"

// Location points at the allocation of a committed transaction. Amount is
// what the spender claims the allocation is worth; the validator checks it
// against the referenced outputs.
type Location struct {
	Block  Height `json:"block"`
	TX     uint64 `json:"tx"`
	Amount uint64 `json:"amount"`
}

// Outpoint identifies one owner's allocation inside a committed transaction.
// A transaction credits each address at most once, so the triple is unique.
type Outpoint struct {
	Block Height
	TX    uint64
	Owner Address
}

func (loc Location) Outpoint(owner Address) Outpoint {
	return Outpoint{
		Block: loc.Block,
		TX:    loc.TX,
		Owner: owner,
	}
}

func (loc Location) String() string {
	return fmt.Sprintf("{block:%d tx:%d amount:%d}", loc.Block, loc.TX, loc.Amount)
}
