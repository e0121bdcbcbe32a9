package kernel

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	_ KeyValueDB = &KeyValueDBT{}
)

type KeyValueDBT struct {
	ptr *leveldb.DB
}

// Batch groups writes applied atomically by KeyValueDB.Write.
type Batch struct {
	ptr leveldb.Batch
}

func (batch *Batch) Set(key []byte, value []byte) {
	batch.ptr.Put(key, value)
}

func (batch *Batch) Del(key []byte) {
	batch.ptr.Delete(key)
}

// NewMemDB opens a database that lives only as long as the process.
func NewMemDB() KeyValueDB {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil
	}
	return &KeyValueDBT{ptr: db}
}

func (db *KeyValueDBT) Set(key []byte, value []byte) {
	err := db.ptr.Put(key, value, nil)
	if err != nil {
		panic(err)
	}
}

func (db *KeyValueDBT) Get(key []byte) []byte {
	data, err := db.ptr.Get(key, nil)
	if err != nil {
		return nil
	}
	return data
}

func (db *KeyValueDBT) Write(batch *Batch) {
	err := db.ptr.Write(&batch.ptr, nil)
	if err != nil {
		panic(err)
	}
}

// Iterate walks keys with the given prefix in ascending order until fn
// returns false. key and value are only valid during the call.
func (db *KeyValueDBT) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	iter := db.ptr.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
}

func (db *KeyValueDBT) Close() {
	db.ptr.Close()
}
