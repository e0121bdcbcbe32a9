package kernel

import "github.com/number571/unionledger/logger"

const (
	KeySize     = 1024 // num bits of rsa keys
	HashSize    = 32   // bytes of sha256
	MempoolSize = 512  // max num txs in mempool
	CacheSize   = 256  // num decoded blocks kept in memory
)

const (
	SchemeSecp256k1 Scheme = "secp256k1"
	SchemeRSA       Scheme = "rsa"
)

const (
	KeyLength = "chain.blocks.length"
	KeyBlock  = "chain.blocks.block[%d]"
	KeyTX     = "chain.txs.tx[%X]"
	KeySpent  = "chain.spent[%d:%d:%s]"

	KeyMempoolLength   = "chain.mempool.length"
	KeyMempoolSeq      = "chain.mempool.seq"
	KeyMempoolTX       = "chain.mempool.tx[%016X]"
	KeyMempoolPrefixTX = "chain.mempool.tx["
	KeyMempoolHash     = "chain.mempool.hash[%X]"
)

// Settings of a ledger instance. Zero fields are replaced by defaults.
type Settings struct {
	Scheme      Scheme
	MempoolSize uint64
	CacheSize   int
	Logger      logger.Logger
}

func DefaultSettings() Settings {
	return Settings{
		Scheme:      SchemeSecp256k1,
		MempoolSize: MempoolSize,
		CacheSize:   CacheSize,
		Logger:      logger.Discard(),
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.Scheme == "" {
		s.Scheme = def.Scheme
	}
	if s.MempoolSize == 0 {
		s.MempoolSize = def.MempoolSize
	}
	if s.CacheSize <= 0 {
		s.CacheSize = def.CacheSize
	}
	if s.Logger == nil {
		s.Logger = def.Logger
	}
	return s
}
