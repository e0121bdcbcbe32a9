package main

import (
	"fmt"

	"github.com/number571/unionledger/kernel"
	"github.com/number571/unionledger/wallet"
)

func main() {
	ledger, err := kernel.NewLedger(kernel.DefaultSettings())
	if err != nil {
		panic(err)
	}
	defer ledger.Close()

	users := newWallets(ledger.Authority().Scheme(), 3)

	// issue value
	if _, err := ledger.Mint(map[kernel.Address]uint64{
		users[0].Address(): 10,
		users[1].Address(): 20,
	}); err != nil {
		panic(err)
	}
	ledger.Commit()

	// transfer with change
	tx, err := users[0].TransferAll(ledger, map[kernel.Address]uint64{
		users[2].Address(): 7,
		users[0].Address(): 3,
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(ledger.Submit(tx, users[0].PubKey()))
	ledger.Commit()

	// spend the same allocation again
	fmt.Println(ledger.Submit(tx, users[0].PubKey()))

	// wrong key
	tx = users[1].CreateTransfer(map[kernel.Address]uint64{
		users[2].Address(): 20,
	}, ledger.SpendablePositions(users[1].Address()))
	fmt.Println(ledger.Submit(tx, users[2].PubKey()))

	for i, user := range users {
		fmt.Println(i, user.Address(), ledger.Balance(user.Address()))
	}
	fmt.Println(ledger.Length(), ledger.VerifyChain())
}

func newWallets(scheme kernel.Scheme, n int) []wallet.Wallet {
	users := make([]wallet.Wallet, 0, n)
	for i := 0; i < n; i++ {
		user, err := wallet.New(scheme)
		if err != nil {
			panic(err)
		}
		users = append(users, user)
	}
	return users
}
