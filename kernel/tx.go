package kernel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	_ Transaction = &TransactionT{}
)

type TransactionT struct {
	sender  Address
	inputs  []Location
	outputs map[Address]uint64
	hash    Hash
	sign    Sign
}

type txJSON struct {
	Sender  Address            `json:"sender"`
	Inputs  []Location         `json:"inputs"`
	Outputs map[Address]uint64 `json:"outputs"`
	Hash    []byte             `json:"hash"`
	Sign    []byte             `json:"sign"`
}

// txRecord is the part of a transaction covered by its hash.
type txRecord struct {
	Sender  Address            `json:"sender"`
	Inputs  []Location         `json:"inputs"`
	Outputs map[Address]uint64 `json:"outputs"`
}

// NewTransaction builds, hashes and signs a transfer from the owner of priv.
// A transaction without inputs is a mint.
func NewTransaction(priv PrivKey, inputs []Location, outputs map[Address]uint64) Transaction {
	if priv == nil {
		return nil
	}

	tx := &TransactionT{
		sender:  priv.PubKey().Address(),
		inputs:  copyInputs(inputs),
		outputs: copyOutputs(outputs),
	}

	tx.hash = tx.newHash()
	tx.sign = priv.Sign(tx.hash)

	return tx
}

// LoadTransaction only decodes; integrity and signature are checked by the
// validator so a tampered transaction is reported rather than dropped.
func LoadTransaction(txBytes []byte) (Transaction, error) {
	txConv := new(txJSON)
	if err := json.Unmarshal(txBytes, txConv); err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}

	return &TransactionT{
		sender:  txConv.Sender,
		inputs:  copyInputs(txConv.Inputs),
		outputs: copyOutputs(txConv.Outputs),
		hash:    txConv.Hash,
		sign:    txConv.Sign,
	}, nil
}

func (tx *TransactionT) Sender() Address {
	return tx.sender
}

func (tx *TransactionT) Inputs() []Location {
	return copyInputs(tx.inputs)
}

func (tx *TransactionT) Outputs() map[Address]uint64 {
	return copyOutputs(tx.outputs)
}

func (tx *TransactionT) IsMint() bool {
	return len(tx.inputs) == 0
}

func (tx *TransactionT) Hash() Hash {
	return tx.hash
}

func (tx *TransactionT) Sign() Sign {
	return tx.sign
}

func (tx *TransactionT) Bytes() []byte {
	txConv := &txJSON{
		Sender:  tx.sender,
		Inputs:  tx.inputs,
		Outputs: tx.outputs,
		Hash:    tx.hash,
		Sign:    tx.sign,
	}

	txBytes, err := json.Marshal(txConv)
	if err != nil {
		return nil
	}

	return txBytes
}

func (tx *TransactionT) String() string {
	return fmt.Sprintf("TX{sender:%s inputs:%v outputs:%v hash:%X}",
		tx.sender, tx.inputs, tx.outputs, []byte(tx.hash))
}

// IsValid reports whether the stored hash matches the content.
func (tx *TransactionT) IsValid() bool {
	if len(tx.hash) == 0 {
		return false
	}
	return bytes.Equal(tx.hash, tx.newHash())
}

func (tx *TransactionT) Verify(pub PubKey) bool {
	if pub == nil {
		return false
	}
	return pub.Verify(tx.hash, tx.sign)
}

func (tx *TransactionT) newHash() Hash {
	return Digest(&txRecord{
		Sender:  tx.sender,
		Inputs:  tx.inputs,
		Outputs: tx.outputs,
	})
}

// validAddresses reports whether every address in tx survives the JSON
// encoding unchanged.
func validAddresses(tx Transaction) bool {
	if !utf8.ValidString(string(tx.Sender())) {
		return false
	}
	for addr := range tx.Outputs() {
		if !utf8.ValidString(string(addr)) {
			return false
		}
	}
	return true
}

func copyInputs(inputs []Location) []Location {
	res := make([]Location, len(inputs))
	copy(res, inputs)
	return res
}

func copyOutputs(outputs map[Address]uint64) map[Address]uint64 {
	res := make(map[Address]uint64, len(outputs))
	for addr, amount := range outputs {
		res[addr] = amount
	}
	return res
}
