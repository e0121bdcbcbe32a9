package kernel

// BlockAt returns the committed block at index, nil past the tip.
func (ledger *LedgerT) BlockAt(index Height) Block {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.chain.Block(index)
}

// TxByHash finds a committed transaction. The returned location carries the
// amount credited to the sender itself, zero when it kept no change.
func (ledger *LedgerT) TxByHash(hash Hash) (Transaction, Location, bool) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	loc, ok := ledger.chain.Find(hash)
	if !ok {
		return nil, Location{}, false
	}

	tx := ledger.chain.TX(loc.Block, loc.TX)
	if tx == nil {
		return nil, Location{}, false
	}

	loc.Amount = tx.Outputs()[tx.Sender()]
	return tx, loc, true
}

// Balance folds over every committed transaction: credits to addr are added
// and every output of a transaction sent by addr, change included, is
// subtracted. Conservation makes the result the unspent total; the
// authority goes negative by what it has issued, which is unbounded.
func (ledger *LedgerT) Balance(addr Address) BigInt {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	balance := ZeroInt()
	ledger.forEachTX(func(_ Height, _ uint64, tx Transaction) {
		fromAddr := tx.Sender() == addr
		for receiver, amount := range tx.Outputs() {
			if receiver == addr {
				balance.Add(UintToInt(amount))
			}
			if fromAddr {
				balance.Sub(UintToInt(amount))
			}
		}
	})

	return balance
}

// SpendablePositions lists the unconsumed allocations credited to addr in
// chain order.
func (ledger *LedgerT) SpendablePositions(addr Address) []Location {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	positions := []Location{}
	ledger.forEachTX(func(index Height, txIndex uint64, tx Transaction) {
		amount, ok := tx.Outputs()[addr]
		if !ok {
			return
		}

		loc := Location{Block: index, TX: txIndex, Amount: amount}
		if ledger.chain.IsSpent(loc.Outpoint(addr)) {
			return
		}

		positions = append(positions, loc)
	})

	return positions
}

func (ledger *LedgerT) forEachTX(fn func(Height, uint64, Transaction)) {
	length := ledger.chain.Length()
	for i := Height(0); i < length; i++ {
		block := ledger.chain.Block(i)
		if block == nil {
			continue
		}
		for j, tx := range block.Transactions() {
			fn(i, uint64(j), tx)
		}
	}
}
