package kernel

import (
	"sync"

	"github.com/number571/go-peer/encoding"
)

var (
	_ Mempool = &MempoolT{}
)

// MempoolT keeps pending transactions in arrival order. Entries are keyed by
// a zero padded sequence number so prefix iteration yields that order.
type MempoolT struct {
	mtx sync.Mutex
	ptr KeyValueDB
}

func NewMempool(db KeyValueDB) Mempool {
	for _, key := range [][]byte{GetKeyMempoolLength(), GetKeyMempoolSeq()} {
		if db.Get(key) == nil {
			db.Set(key, encoding.Uint64ToBytes(0))
		}
	}
	return &MempoolT{ptr: db}
}

func (mempool *MempoolT) Length() uint64 {
	return mempool.counter(GetKeyMempoolLength())
}

func (mempool *MempoolT) TX(hash Hash) Transaction {
	seq := mempool.ptr.Get(GetKeyMempoolHash(hash))
	if seq == nil {
		return nil
	}

	data := mempool.ptr.Get(GetKeyMempoolTX(encoding.BytesToUint64(seq)))
	if data == nil {
		return nil
	}

	tx, err := LoadTransaction(data)
	if err != nil {
		return nil
	}
	return tx
}

func (mempool *MempoolT) Push(tx Transaction) {
	mempool.mtx.Lock()
	defer mempool.mtx.Unlock()

	var (
		batch = new(Batch)
		seq   = mempool.counter(GetKeyMempoolSeq())
	)

	batch.Set(GetKeyMempoolTX(seq), tx.Bytes())
	batch.Set(GetKeyMempoolHash(tx.Hash()), encoding.Uint64ToBytes(seq))
	batch.Set(GetKeyMempoolSeq(), encoding.Uint64ToBytes(seq+1))
	batch.Set(GetKeyMempoolLength(), encoding.Uint64ToBytes(mempool.Length()+1))

	mempool.ptr.Write(batch)
}

func (mempool *MempoolT) List() []Transaction {
	mempool.mtx.Lock()
	defer mempool.mtx.Unlock()

	txs, _ := mempool.scan()
	return txs
}

// Drain removes and returns every pending transaction in arrival order.
func (mempool *MempoolT) Drain() []Transaction {
	mempool.mtx.Lock()
	defer mempool.mtx.Unlock()

	txs, keys := mempool.scan()

	batch := new(Batch)
	for i, key := range keys {
		batch.Del(key)
		batch.Del(GetKeyMempoolHash(txs[i].Hash()))
	}
	batch.Set(GetKeyMempoolLength(), encoding.Uint64ToBytes(0))

	mempool.ptr.Write(batch)
	return txs
}

func (mempool *MempoolT) counter(key []byte) uint64 {
	data := mempool.ptr.Get(key)
	if data == nil {
		panic("value undefined")
	}
	return encoding.BytesToUint64(data)
}

func (mempool *MempoolT) scan() ([]Transaction, [][]byte) {
	var (
		txs  []Transaction
		keys [][]byte
	)

	mempool.ptr.Iterate([]byte(KeyMempoolPrefixTX), func(key, value []byte) bool {
		tx, err := LoadTransaction(value)
		if err != nil {
			return true
		}
		txs = append(txs, tx)
		keys = append(keys, append([]byte{}, key...))
		return true
	})

	return txs, keys
}
