package kernel

import (
	"testing"

	"github.com/number571/go-peer/encoding"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainAppend(t *testing.T) {
	f := newFixture(t, SchemeSecp256k1, 3)

	assert.Equal(t, Height(0), f.chain.Length())
	assert.Equal(t, GenesisPrevHash(), f.chain.LastHash())
	assert.Nil(t, f.chain.Block(0))

	f.fund(t)
	assert.Equal(t, Height(2), f.chain.Length())
	assert.Equal(t, f.chain.Block(1).Hash(), f.chain.LastHash())

	mint := f.chain.TX(0, 0)
	require.NotNil(t, mint)
	assert.True(t, mint.IsMint())
	assert.Nil(t, f.chain.TX(0, 1))
	assert.Nil(t, f.chain.TX(2, 0))

	loc, ok := f.chain.Find(mint.Hash())
	require.True(t, ok)
	assert.Equal(t, Location{Block: 0, TX: 0}, loc)

	_, ok = f.chain.Find(Digest("missing"))
	assert.False(t, ok)

	assert.True(t, f.chain.IsSpent(Outpoint{Block: 0, TX: 0, Owner: f.addr(0)}))
	assert.False(t, f.chain.IsSpent(Outpoint{Block: 0, TX: 0, Owner: f.addr(1)}))
}

func TestChainAppendRejects(t *testing.T) {
	f := newFixture(t, SchemeSecp256k1, 1)
	f.commit(t)

	tests := []struct {
		name  string
		block func() Block
		err   error
	}{
		{
			name: "index behind the tip",
			block: func() Block {
				return NewBlock(f.authority, 0, f.chain.LastHash(), nil)
			},
			err: ErrBadIndex,
		},
		{
			name: "index past the tip",
			block: func() Block {
				return NewBlock(f.authority, 5, f.chain.LastHash(), nil)
			},
			err: ErrBadIndex,
		},
		{
			name: "wrong previous hash",
			block: func() Block {
				return NewBlock(f.authority, 1, GenesisPrevHash(), nil)
			},
			err: ErrBadLink,
		},
		{
			name: "tampered block",
			block: func() Block {
				block := NewBlock(f.authority, 1, f.chain.LastHash(), nil).(*BlockT)
				block.hash = Digest("other")
				return block
			},
			err: ErrBadBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.chain.Append(tt.block())
			assert.Equal(t, tt.err, errors.Cause(err))
			assert.Equal(t, Height(1), f.chain.Length())
		})
	}
}

func TestChainReadsThroughCache(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	chain, err := NewChain(db, 1)
	require.NoError(t, err)

	authority := newTestKey(t, SchemeSecp256k1)
	for i := Height(0); i < 4; i++ {
		require.NoError(t, chain.Append(NewBlock(authority, i, chain.LastHash(), nil)))
	}

	// A second view over the same storage starts with a cold cache.
	cold, err := NewChain(db, 1)
	require.NoError(t, err)

	for i := Height(0); i < 4; i++ {
		assert.Equal(t, chain.Block(i).Hash(), cold.Block(i).Hash())
	}
}

func TestChainReopen(t *testing.T) {
	db := NewMemDB()
	require.NotNil(t, db)
	defer db.Close()

	chain, err := NewChain(db, CacheSize)
	require.NoError(t, err)
	assert.Equal(t, Height(0), chain.Length())
	assert.Equal(t, encoding.Uint64ToBytes(0), db.Get(GetKeyLength()))

	authority := newTestKey(t, SchemeSecp256k1)
	block := NewBlock(authority, 0, chain.LastHash(), []Transaction{
		NewTransaction(authority, nil, map[Address]uint64{"a": 1}),
	})
	require.NoError(t, chain.Append(block))

	reopened, err := NewChain(db, CacheSize)
	require.NoError(t, err)
	assert.Equal(t, Height(1), reopened.Length())
	assert.Equal(t, block.Hash(), reopened.LastHash())
}
