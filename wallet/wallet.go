// Package wallet holds an account key pair and builds signed transfers.
// It performs no validation; the ledger decides admissibility.
package wallet

import (
	"github.com/pkg/errors"

	"github.com/number571/unionledger/kernel"
)

var (
	_ Wallet = &WalletT{}
)

var (
	ErrNoFunds = errors.New("no spendable positions")
)

// Positions is the part of the ledger read model a wallet needs.
type Positions interface {
	SpendablePositions(kernel.Address) []kernel.Location
}

type Wallet interface {
	Address() kernel.Address
	PubKey() kernel.PubKey
	PrivKey() kernel.PrivKey

	CreateTransfer(map[kernel.Address]uint64, []kernel.Location) kernel.Transaction
	TransferAll(Positions, map[kernel.Address]uint64) (kernel.Transaction, error)
}

type WalletT struct {
	priv kernel.PrivKey
	pub  kernel.PubKey
}

func New(scheme kernel.Scheme) (Wallet, error) {
	priv, err := kernel.NewPrivKey(scheme)
	if err != nil {
		return nil, errors.Wrap(err, "new wallet")
	}
	return Load(priv), nil
}

func Load(priv kernel.PrivKey) Wallet {
	return &WalletT{
		priv: priv,
		pub:  priv.PubKey(),
	}
}

func (wallet *WalletT) Address() kernel.Address {
	return wallet.pub.Address()
}

func (wallet *WalletT) PubKey() kernel.PubKey {
	return wallet.pub
}

func (wallet *WalletT) PrivKey() kernel.PrivKey {
	return wallet.priv
}

func (wallet *WalletT) CreateTransfer(outputs map[kernel.Address]uint64, inputs []kernel.Location) kernel.Transaction {
	return kernel.NewTransaction(wallet.priv, inputs, outputs)
}

// TransferAll spends every position the ledger reports for this wallet.
// Outputs must add up to their total, change included.
func (wallet *WalletT) TransferAll(positions Positions, outputs map[kernel.Address]uint64) (kernel.Transaction, error) {
	inputs := positions.SpendablePositions(wallet.Address())
	if len(inputs) == 0 {
		return nil, ErrNoFunds
	}
	return wallet.CreateTransfer(outputs, inputs), nil
}
