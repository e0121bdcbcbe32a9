package network

const (
	PackSize  = (1 << 20) // 1MiB
	ConnSize  = 256       // max num connections
	NonceSize = 16        // chars
	TimeLimit = 5         // seconds
	SizeBytes = 8         // length prefix
)

const (
	// MaskBit marks a message as the response to the request with the same
	// head and nonce.
	MaskBit = MsgType(1 << 31)
)
