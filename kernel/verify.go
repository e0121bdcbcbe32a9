package kernel

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrBrokenChain = errors.New("chain verification failed")
)

// VerifyChain re-checks committed history: every block sits at its index,
// links to its predecessor, matches its hash and carries the authority
// signature. Blocks are checked concurrently.
func (ledger *LedgerT) VerifyChain() error {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	var (
		g         errgroup.Group
		authority = ledger.authority.PubKey()
		length    = ledger.chain.Length()
	)

	for i := Height(0); i < length; i++ {
		index := i
		g.Go(func() error {
			block := ledger.chain.Block(index)
			if block == nil {
				return errors.Wrapf(ErrBrokenChain, "block %d missing", index)
			}

			prevHash := GenesisPrevHash()
			if index > 0 {
				prev := ledger.chain.Block(index - 1)
				if prev == nil {
					return errors.Wrapf(ErrBrokenChain, "block %d missing", index-1)
				}
				prevHash = prev.Hash()
			}

			return verifyBlock(block, index, prevHash, authority)
		})
	}

	return g.Wait()
}

func verifyBlock(block Block, index Height, prevHash Hash, authority PubKey) error {
	switch {
	case block.Index() != index:
		return errors.Wrapf(ErrBrokenChain, "block %d has index %d", index, block.Index())
	case !bytes.Equal(block.PrevHash(), prevHash):
		return errors.Wrapf(ErrBrokenChain, "block %d does not link to its parent", index)
	case !block.IsValid():
		return errors.Wrapf(ErrBrokenChain, "block %d hash mismatch", index)
	case !block.Verify(authority):
		return errors.Wrapf(ErrBrokenChain, "block %d bad authority signature", index)
	}
	return nil
}
