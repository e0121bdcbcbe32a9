package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/number571/unionledger/kernel"
	"github.com/number571/unionledger/wallet"
)

const demoUsers = 10

var (
	errDemoOutcome = errors.New("unexpected demo outcome")
)

type demoStep struct {
	title  string
	sender int
	pub    int // index of the key handed to the ledger
	build  func(users []wallet.Wallet) kernel.Transaction
	expect kernel.Rule // empty when the transfer must be accepted
}

// runDemo replays the sample transfer scenario against ledger and prints every
// step to w. It fails when a step does not end the way it is expected to.
func runDemo(w io.Writer, ledger kernel.Ledger) error {
	scheme := ledger.Authority().Scheme()

	users := make([]wallet.Wallet, demoUsers)
	for i := range users {
		user, err := wallet.New(scheme)
		if err != nil {
			return err
		}
		users[i] = user
	}

	balances := func(title string, idx ...int) {
		rows := make([]accountRow, 0, len(idx))
		for _, i := range idx {
			rows = append(rows, accountRow{
				name:    fmt.Sprintf("user %d", i),
				addr:    users[i].Address(),
				balance: ledger.Balance(users[i].Address()),
			})
		}
		fmt.Fprintf(w, "~ %s\n", title)
		showBalances(w, rows)
	}

	fmt.Fprintln(w, "~~~~ SETUP ~~~~")
	if _, err := ledger.Mint(map[kernel.Address]uint64{
		users[0].Address(): 10,
		users[1].Address(): 20,
		users[3].Address(): 50,
	}); err != nil {
		return err
	}
	balances("initial balance", 4, 5, 6, 7, 8, 9)

	for _, receivers := range []map[kernel.Address]uint64{
		{users[4].Address(): 10, users[5].Address(): 20, users[6].Address(): 0},
		{users[7].Address(): 10, users[8].Address(): 20, users[9].Address(): 0},
	} {
		if _, err := ledger.Mint(receivers); err != nil {
			return err
		}
	}
	ledger.Commit()
	balances("after minting", 4, 5, 6, 7, 8, 9)

	// Kept to replay an already consumed allocation later on.
	stale := ledger.SpendablePositions(users[4].Address())

	positions := func(u int) []kernel.Location {
		return ledger.SpendablePositions(users[u].Address())
	}

	steps := []demoStep{
		{
			title:  "user 4 sends 8 to user 5 and keeps 2",
			sender: 4, pub: 4,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[4].CreateTransfer(map[kernel.Address]uint64{
					users[5].Address(): 8,
					users[4].Address(): 2,
				}, positions(4))
			},
		},
		{
			title:  "user 5 sends 8 to user 4 and keeps 20",
			sender: 5, pub: 5,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[5].CreateTransfer(map[kernel.Address]uint64{
					users[4].Address(): 8,
					users[5].Address(): 20,
				}, positions(5))
			},
		},
		{
			title:  "user 7 pays user 8 but hands over the wrong key",
			sender: 7, pub: 8,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[7].CreateTransfer(map[kernel.Address]uint64{
					users[8].Address(): 5,
					users[7].Address(): 5,
				}, positions(7))
			},
			expect: kernel.RuleSignature,
		},
		{
			title:  "user 4 spends an allocation that does not exist",
			sender: 4, pub: 4,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[4].CreateTransfer(map[kernel.Address]uint64{
					users[5].Address(): 5,
					users[4].Address(): 5,
				}, []kernel.Location{{Block: 0, TX: 7, Amount: 10}})
			},
			expect: kernel.RuleUnknownLocation,
		},
		{
			title:  "user 6 sends 5 without funds",
			sender: 6, pub: 6,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[6].CreateTransfer(map[kernel.Address]uint64{
					users[4].Address(): 5,
					users[6].Address(): 0,
				}, positions(6))
			},
			expect: kernel.RuleUnbalanced,
		},
		{
			title:  "user 7 sends 7 to user 8 and keeps nothing back",
			sender: 7, pub: 7,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[7].CreateTransfer(map[kernel.Address]uint64{
					users[8].Address(): 7,
					users[7].Address(): 0,
				}, positions(7))
			},
			expect: kernel.RuleUnbalanced,
		},
		{
			title:  "user 4 spends an allocation already consumed",
			sender: 4, pub: 4,
			build: func(users []wallet.Wallet) kernel.Transaction {
				return users[4].CreateTransfer(map[kernel.Address]uint64{
					users[5].Address(): 5,
					users[4].Address(): 15,
				}, append(append([]kernel.Location{}, stale...), positions(4)...))
			},
			expect: kernel.RuleDoubleSpend,
		},
	}

	for _, step := range steps {
		fmt.Fprintf(w, "\n~~~~ %s ~~~~\n", step.title)
		tx := step.build(users)

		verdict, err := ledger.Submit(tx, users[step.pub].PubKey())
		ledger.Commit()

		fmt.Fprintf(w, "verdict: %s\n", verdict)
		balances("after commit", step.sender)

		switch {
		case step.expect == "" && err != nil:
			return errors.Wrapf(errDemoOutcome, "%s: %v", step.title, err)
		case step.expect != "" && !verdict.Has(step.expect):
			return errors.Wrapf(errDemoOutcome, "%s: want %s got %s", step.title, step.expect, verdict)
		}
	}

	fmt.Fprintln(w, "\n~~~~ BLOCK 1 ~~~~")
	block := ledger.BlockAt(1)
	if block == nil {
		return errors.Wrap(errDemoOutcome, "block 1 missing")
	}
	showBlock(w, block)

	return ledger.VerifyChain()
}
