package kernel

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchemes = []Scheme{SchemeSecp256k1, SchemeRSA}

func newTestKey(t *testing.T, scheme Scheme) PrivKey {
	t.Helper()

	priv, err := NewPrivKey(scheme)
	require.NoError(t, err)
	return priv
}

func TestSignVerify(t *testing.T) {
	for _, scheme := range testSchemes {
		t.Run(string(scheme), func(t *testing.T) {
			priv := newTestKey(t, scheme)
			other := newTestKey(t, scheme)
			hash := Digest("payload")
			sign := priv.Sign(hash)

			assert.Equal(t, scheme, priv.Scheme())
			assert.True(t, priv.PubKey().Verify(hash, sign))
			assert.False(t, other.PubKey().Verify(hash, sign))
			assert.False(t, priv.PubKey().Verify(Digest("other payload"), sign))
			assert.False(t, priv.PubKey().Verify(hash, nil))
		})
	}
}

func TestLoadKeys(t *testing.T) {
	for _, scheme := range testSchemes {
		t.Run(string(scheme), func(t *testing.T) {
			priv := newTestKey(t, scheme)

			loaded, err := LoadPrivKey(scheme, priv.Bytes())
			require.NoError(t, err)
			assert.Equal(t, priv.PubKey().Address(), loaded.PubKey().Address())

			pub, err := LoadPubKey(scheme, priv.PubKey().Bytes())
			require.NoError(t, err)
			assert.Equal(t, priv.PubKey().Address(), pub.Address())

			hash := Digest("payload")
			assert.True(t, pub.Verify(hash, loaded.Sign(hash)))
		})
	}
}

func TestLoadBadKey(t *testing.T) {
	_, err := LoadPrivKey(SchemeSecp256k1, []byte{1, 2, 3})
	assert.Equal(t, ErrBadKey, errors.Cause(err))

	_, err = LoadPubKey(SchemeSecp256k1, []byte{1, 2, 3})
	assert.Equal(t, ErrBadKey, errors.Cause(err))
}

func TestUnknownScheme(t *testing.T) {
	_, err := NewPrivKey("ed448")
	assert.Equal(t, ErrUnknownScheme, errors.Cause(err))

	_, err = LoadPrivKey("ed448", nil)
	assert.Equal(t, ErrUnknownScheme, errors.Cause(err))

	_, err = LoadPubKey("ed448", nil)
	assert.Equal(t, ErrUnknownScheme, errors.Cause(err))
}

func TestAddressBoundToScheme(t *testing.T) {
	data := []byte("same key bytes")

	assert.NotEqual(t, NewAddress(SchemeSecp256k1, data), NewAddress(SchemeRSA, data))
	assert.Equal(t, NewAddress(SchemeRSA, data), NewAddress(SchemeRSA, data))
	assert.Len(t, string(NewAddress(SchemeRSA, data)), 2*HashSize)
}

func TestDigestIgnoresMapOrder(t *testing.T) {
	a := map[Address]uint64{}
	b := map[Address]uint64{}

	names := []Address{"x", "y", "z", "w"}
	for i, name := range names {
		a[name] = uint64(i)
	}
	for i := len(names) - 1; i >= 0; i-- {
		b[names[i]] = uint64(i)
	}

	assert.Equal(t, Digest(a), Digest(b))
	assert.Len(t, Digest(a), HashSize)
}
