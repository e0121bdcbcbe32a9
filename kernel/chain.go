package kernel

import (
	"bytes"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru"
	"github.com/number571/go-peer/encoding"
	"github.com/pkg/errors"
)

var (
	_ Chain = &ChainT{}
)

var (
	ErrBadIndex = errors.New("block index is not the chain length")
	ErrBadLink  = errors.New("block does not link to the last block")
	ErrBadBlock = errors.New("block hash does not match its content")
)

// ChainT is the append-only block sequence plus the indexes derived from it:
// transaction hash to location and the set of consumed outpoints.
type ChainT struct {
	ptr   KeyValueDB
	cache *lru.Cache
}

type txLocation struct {
	Block Height `json:"block"`
	TX    uint64 `json:"tx"`
}

func NewChain(db KeyValueDB, cacheSize int) (Chain, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "block cache")
	}

	if db.Get(GetKeyLength()) == nil {
		db.Set(GetKeyLength(), encoding.Uint64ToBytes(0))
	}

	return &ChainT{
		ptr:   db,
		cache: cache,
	}, nil
}

func (chain *ChainT) Length() Height {
	data := chain.ptr.Get(GetKeyLength())
	if data == nil {
		panic("value undefined")
	}
	return Height(encoding.BytesToUint64(data))
}

func (chain *ChainT) LastHash() Hash {
	length := chain.Length()
	if length == 0 {
		return GenesisPrevHash()
	}
	return chain.Block(length - 1).Hash()
}

func (chain *ChainT) Block(index Height) Block {
	if index >= chain.Length() {
		return nil
	}

	if block, ok := chain.cache.Get(index); ok {
		return block.(Block)
	}

	data := chain.ptr.Get(GetKeyBlock(index))
	if data == nil {
		return nil
	}

	block, err := LoadBlock(data)
	if err != nil {
		return nil
	}

	chain.cache.Add(index, block)
	return block
}

func (chain *ChainT) TX(index Height, txIndex uint64) Transaction {
	block := chain.Block(index)
	if block == nil {
		return nil
	}

	txs := block.Transactions()
	if txIndex >= uint64(len(txs)) {
		return nil
	}

	return txs[txIndex]
}

func (chain *ChainT) IsSpent(out Outpoint) bool {
	return chain.ptr.Get(GetKeySpent(out)) != nil
}

// Find returns the location of a committed transaction. Amount is unset.
func (chain *ChainT) Find(hash Hash) (Location, bool) {
	data := chain.ptr.Get(GetKeyTX(hash))
	if data == nil {
		return Location{}, false
	}

	loc := new(txLocation)
	if err := json.Unmarshal(data, loc); err != nil {
		return Location{}, false
	}

	return Location{Block: loc.Block, TX: loc.TX}, true
}

// Append stores block together with its indexes in one batch, so readers
// see either the whole block or nothing of it.
func (chain *ChainT) Append(block Block) error {
	length := chain.Length()

	if block.Index() != length {
		return errors.Wrapf(ErrBadIndex, "index %d length %d", block.Index(), length)
	}

	if !bytes.Equal(block.PrevHash(), chain.LastHash()) {
		return ErrBadLink
	}

	if !block.IsValid() {
		return ErrBadBlock
	}

	batch := new(Batch)
	batch.Set(GetKeyBlock(length), block.Bytes())

	for i, tx := range block.Transactions() {
		locBytes, err := json.Marshal(&txLocation{Block: length, TX: uint64(i)})
		if err != nil {
			return errors.Wrap(err, "encode tx location")
		}
		batch.Set(GetKeyTX(tx.Hash()), locBytes)

		for _, in := range tx.Inputs() {
			batch.Set(GetKeySpent(in.Outpoint(tx.Sender())), tx.Hash())
		}
	}

	batch.Set(GetKeyLength(), encoding.Uint64ToBytes(uint64(length+1)))

	chain.ptr.Write(batch)
	chain.cache.Add(length, block)

	return nil
}
