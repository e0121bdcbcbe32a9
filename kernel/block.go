package kernel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

var (
	_ Block = &BlockT{}
)

type BlockT struct {
	index    Height
	prevHash Hash
	txs      []Transaction
	hash     Hash
	sign     Sign
}

type blockJSON struct {
	Index    Height            `json:"index"`
	PrevHash []byte            `json:"prev_hash"`
	TXs      []json.RawMessage `json:"txs"`
	Hash     []byte            `json:"hash"`
	Sign     []byte            `json:"sign"`
}

// blockRecord is the part of a block covered by its hash. Transactions are
// included in full, signatures too.
type blockRecord struct {
	PrevHash []byte            `json:"previous_hash"`
	Index    Height            `json:"index"`
	TXs      []json.RawMessage `json:"transactions"`
}

// GenesisPrevHash is the previous hash of the first block.
func GenesisPrevHash() Hash {
	return make(Hash, HashSize)
}

// NewBlock freezes txs in the given order and signs the result with priv.
func NewBlock(priv PrivKey, index Height, prevHash Hash, txs []Transaction) Block {
	if priv == nil {
		return nil
	}

	block := &BlockT{
		index:    index,
		prevHash: prevHash,
		txs:      make([]Transaction, len(txs)),
	}
	copy(block.txs, txs)

	block.hash = block.newHash()
	block.sign = priv.Sign(block.hash)

	return block
}

func LoadBlock(blockBytes []byte) (Block, error) {
	blockConv := new(blockJSON)
	if err := json.Unmarshal(blockBytes, blockConv); err != nil {
		return nil, errors.Wrap(err, "decode block")
	}

	block := &BlockT{
		index:    blockConv.Index,
		prevHash: blockConv.PrevHash,
		hash:     blockConv.Hash,
		sign:     blockConv.Sign,
	}

	for i, txBytes := range blockConv.TXs {
		tx, err := LoadTransaction(txBytes)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d tx %d", blockConv.Index, i)
		}
		block.txs = append(block.txs, tx)
	}

	return block, nil
}

func (block *BlockT) Index() Height {
	return block.index
}

func (block *BlockT) PrevHash() Hash {
	return block.prevHash
}

func (block *BlockT) Transactions() []Transaction {
	txs := make([]Transaction, len(block.txs))
	copy(txs, block.txs)
	return txs
}

func (block *BlockT) Hash() Hash {
	return block.hash
}

func (block *BlockT) Sign() Sign {
	return block.sign
}

func (block *BlockT) Bytes() []byte {
	blockConv := &blockJSON{
		Index:    block.index,
		PrevHash: block.prevHash,
		TXs:      block.rawTXs(),
		Hash:     block.hash,
		Sign:     block.sign,
	}

	blockBytes, err := json.Marshal(blockConv)
	if err != nil {
		return nil
	}

	return blockBytes
}

func (block *BlockT) String() string {
	return fmt.Sprintf("Block{index:%d prev:%X hash:%X txs:%d}",
		block.index, []byte(block.prevHash), []byte(block.hash), len(block.txs))
}

// IsValid reports whether the stored hash matches the content and every
// transaction in it is intact.
func (block *BlockT) IsValid() bool {
	if len(block.hash) == 0 {
		return false
	}

	for _, tx := range block.txs {
		if !tx.IsValid() {
			return false
		}
	}

	return bytes.Equal(block.hash, block.newHash())
}

func (block *BlockT) Verify(pub PubKey) bool {
	if pub == nil {
		return false
	}
	return pub.Verify(block.hash, block.sign)
}

func (block *BlockT) newHash() Hash {
	return Digest(&blockRecord{
		PrevHash: block.prevHash,
		Index:    block.index,
		TXs:      block.rawTXs(),
	})
}

func (block *BlockT) rawTXs() []json.RawMessage {
	raws := make([]json.RawMessage, 0, len(block.txs))
	for _, tx := range block.txs {
		raws = append(raws, tx.Bytes())
	}
	return raws
}
