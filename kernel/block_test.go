package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockLoad(t *testing.T) {
	authority := newTestKey(t, SchemeSecp256k1)
	txs := []Transaction{
		NewTransaction(authority, nil, map[Address]uint64{"a": 10}),
		NewTransaction(authority, nil, map[Address]uint64{"b": 20}),
	}

	block := NewBlock(authority, 0, GenesisPrevHash(), txs)
	require.NotNil(t, block)
	assert.True(t, block.IsValid())
	assert.True(t, block.Verify(authority.PubKey()))
	assert.False(t, block.Verify(newTestKey(t, SchemeSecp256k1).PubKey()))

	loaded, err := LoadBlock(block.Bytes())
	require.NoError(t, err)
	assert.Equal(t, block.Hash(), loaded.Hash())
	assert.Equal(t, block.PrevHash(), loaded.PrevHash())
	assert.Equal(t, Height(0), loaded.Index())
	require.Len(t, loaded.Transactions(), 2)
	assert.Equal(t, txs[1].Hash(), loaded.Transactions()[1].Hash())
	assert.True(t, loaded.IsValid())
	assert.True(t, loaded.Verify(authority.PubKey()))
}

func TestBlockHashCoversTransactions(t *testing.T) {
	authority := newTestKey(t, SchemeSecp256k1)
	tx := NewTransaction(authority, nil, map[Address]uint64{"a": 10})

	block := NewBlock(authority, 0, GenesisPrevHash(), []Transaction{tx})
	loaded, err := LoadBlock(block.Bytes())
	require.NoError(t, err)

	inner := loaded.(*BlockT).txs[0].(*TransactionT)
	inner.outputs["a"] = 11

	assert.False(t, loaded.IsValid())
}

func TestBlockHashCoversIndexAndLink(t *testing.T) {
	authority := newTestKey(t, SchemeSecp256k1)

	first := NewBlock(authority, 0, GenesisPrevHash(), nil)
	second := NewBlock(authority, 1, GenesisPrevHash(), nil)
	third := NewBlock(authority, 0, first.Hash(), nil)

	assert.NotEqual(t, first.Hash(), second.Hash())
	assert.NotEqual(t, first.Hash(), third.Hash())
	assert.Len(t, GenesisPrevHash(), HashSize)
}
