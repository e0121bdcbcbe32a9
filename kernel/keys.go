package kernel

import "fmt"

func GetKeyLength() []byte {
	return []byte(KeyLength)
}

func GetKeyBlock(index Height) []byte {
	return []byte(fmt.Sprintf(KeyBlock, index))
}

func GetKeyTX(hash Hash) []byte {
	return []byte(fmt.Sprintf(KeyTX, []byte(hash)))
}

func GetKeySpent(out Outpoint) []byte {
	return []byte(fmt.Sprintf(KeySpent, out.Block, out.TX, out.Owner))
}

func GetKeyMempoolLength() []byte {
	return []byte(KeyMempoolLength)
}

func GetKeyMempoolSeq() []byte {
	return []byte(KeyMempoolSeq)
}

func GetKeyMempoolTX(seq uint64) []byte {
	return []byte(fmt.Sprintf(KeyMempoolTX, seq))
}

func GetKeyMempoolHash(hash Hash) []byte {
	return []byte(fmt.Sprintf(KeyMempoolHash, []byte(hash)))
}
