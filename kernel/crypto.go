package kernel

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcec"
	"github.com/number571/gopeer/crypto"
	"github.com/pkg/errors"
)

var (
	ErrUnknownScheme = errors.New("unknown signature scheme")
	ErrBadKey        = errors.New("key bytes are malformed")
)

var (
	_ PrivKey = &secpPrivKeyT{}
	_ PubKey  = &secpPubKeyT{}
	_ PrivKey = &rsaPrivKeyT{}
	_ PubKey  = &rsaPubKeyT{}
)

// Digest is sha256 over the canonical json form of record.
// encoding/json writes map keys in sorted order, so maps hash the same
// regardless of insertion order.
func Digest(record interface{}) Hash {
	data, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	return crypto.NewSHA256(data).Bytes()
}

func NewPrivKey(scheme Scheme) (PrivKey, error) {
	switch scheme {
	case SchemeSecp256k1:
		priv, err := btcec.NewPrivateKey(btcec.S256())
		if err != nil {
			return nil, errors.Wrap(err, "generate secp256k1 key")
		}
		return &secpPrivKeyT{priv}, nil
	case SchemeRSA:
		priv := crypto.NewPrivKey(KeySize)
		if priv == nil {
			return nil, errors.New("generate rsa key")
		}
		return &rsaPrivKeyT{priv}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}
}

func LoadPrivKey(scheme Scheme, data []byte) (PrivKey, error) {
	switch scheme {
	case SchemeSecp256k1:
		if len(data) != btcec.PrivKeyBytesLen {
			return nil, ErrBadKey
		}
		priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), data)
		return &secpPrivKeyT{priv}, nil
	case SchemeRSA:
		priv := crypto.LoadPrivKey(data)
		if priv == nil {
			return nil, ErrBadKey
		}
		return &rsaPrivKeyT{priv}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}
}

func LoadPubKey(scheme Scheme, data []byte) (PubKey, error) {
	switch scheme {
	case SchemeSecp256k1:
		pub, err := btcec.ParsePubKey(data, btcec.S256())
		if err != nil {
			return nil, errors.Wrap(ErrBadKey, err.Error())
		}
		return &secpPubKeyT{pub}, nil
	case SchemeRSA:
		pub := crypto.LoadPubKey(data)
		if pub == nil {
			return nil, ErrBadKey
		}
		return &rsaPubKeyT{pub}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}
}

// NewAddress derives the address of a public key. The scheme takes part in
// the digest so equal key bytes of different schemes never collide.
func NewAddress(scheme Scheme, pub []byte) Address {
	hash := crypto.NewSHA256(bytes.Join(
		[][]byte{
			[]byte(scheme),
			pub,
		},
		[]byte{},
	)).Bytes()
	return Address(hex.EncodeToString(hash))
}

type secpPrivKeyT struct {
	ptr *btcec.PrivateKey
}

func (priv *secpPrivKeyT) Scheme() Scheme {
	return SchemeSecp256k1
}

func (priv *secpPrivKeyT) PubKey() PubKey {
	return &secpPubKeyT{priv.ptr.PubKey()}
}

func (priv *secpPrivKeyT) Sign(hash Hash) Sign {
	sig, err := priv.ptr.Sign(hash)
	if err != nil {
		return nil
	}
	return sig.Serialize()
}

func (priv *secpPrivKeyT) Bytes() []byte {
	return priv.ptr.Serialize()
}

type secpPubKeyT struct {
	ptr *btcec.PublicKey
}

func (pub *secpPubKeyT) Scheme() Scheme {
	return SchemeSecp256k1
}

func (pub *secpPubKeyT) Address() Address {
	return NewAddress(pub.Scheme(), pub.Bytes())
}

func (pub *secpPubKeyT) Verify(hash Hash, sign Sign) bool {
	sig, err := btcec.ParseDERSignature(sign, btcec.S256())
	if err != nil {
		return false
	}
	return sig.Verify(hash, pub.ptr)
}

func (pub *secpPubKeyT) Bytes() []byte {
	return pub.ptr.SerializeCompressed()
}

type rsaPrivKeyT struct {
	ptr crypto.PrivKey
}

func (priv *rsaPrivKeyT) Scheme() Scheme {
	return SchemeRSA
}

func (priv *rsaPrivKeyT) PubKey() PubKey {
	return &rsaPubKeyT{priv.ptr.PubKey()}
}

func (priv *rsaPrivKeyT) Sign(hash Hash) Sign {
	return priv.ptr.Sign(hash)
}

func (priv *rsaPrivKeyT) Bytes() []byte {
	return priv.ptr.Bytes()
}

type rsaPubKeyT struct {
	ptr crypto.PubKey
}

func (pub *rsaPubKeyT) Scheme() Scheme {
	return SchemeRSA
}

func (pub *rsaPubKeyT) Address() Address {
	return NewAddress(pub.Scheme(), pub.Bytes())
}

func (pub *rsaPubKeyT) Verify(hash Hash, sign Sign) bool {
	if len(sign) == 0 {
		return false
	}
	return pub.ptr.Verify(hash, sign)
}

func (pub *rsaPubKeyT) Bytes() []byte {
	return pub.ptr.Bytes()
}
