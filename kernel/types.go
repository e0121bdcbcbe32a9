package kernel

type Hash []byte
type Sign []byte

type Height uint64
type Address string
type Scheme string

type PrivKey interface {
	Scheme() Scheme
	PubKey() PubKey
	Sign(Hash) Sign
	Bytes() []byte
}

type PubKey interface {
	Scheme() Scheme
	Address() Address
	Verify(Hash, Sign) bool
	Bytes() []byte
}

type Verifier interface {
	IsValid() bool
	Verify(PubKey) bool
}

type Signifier interface {
	Hash() Hash
	Sign() Sign

	Verifier
}

type Wrapper interface {
	Bytes() []byte
}

type Transaction interface {
	Sender() Address
	Inputs() []Location
	Outputs() map[Address]uint64
	IsMint() bool

	Wrapper
	Signifier
}

type Block interface {
	Index() Height
	PrevHash() Hash
	Transactions() []Transaction

	Wrapper
	Signifier
}

// History is the committed state a transaction is validated against.
type History interface {
	Length() Height
	TX(Height, uint64) Transaction
	IsSpent(Outpoint) bool
}

type Validator interface {
	Validate(Transaction, PubKey, History) Verdict
	ValidateArbitraryKey(Transaction, PubKey, History) Verdict
}

type BigInt interface {
	Add(BigInt) BigInt
	Sub(BigInt) BigInt
	Cmp(BigInt) int
	Sign() int

	IsInt64() bool
	Int64() int64
	String() string
}

type Mempool interface {
	Length() uint64
	Push(Transaction)
	TX(Hash) Transaction
	List() []Transaction
	Drain() []Transaction
}

type Chain interface {
	History

	LastHash() Hash
	Block(Height) Block
	Find(Hash) (Location, bool)
	Append(Block) error
}

type Reader interface {
	Length() Height
	BlockAt(Height) Block
	TxByHash(Hash) (Transaction, Location, bool)
	Balance(Address) BigInt
	SpendablePositions(Address) []Location
}

type Ledger interface {
	Reader
	History

	Authority() PubKey
	Pending() []Transaction
	PendingLength() uint64

	Mint(map[Address]uint64) (Transaction, error)
	Submit(Transaction, PubKey) (Verdict, error)
	Commit() Block

	VerifyChain() error
	Close()
}

type KeyValueDB interface {
	Set([]byte, []byte)
	Get([]byte) []byte
	Write(*Batch)
	Iterate([]byte, func(key, value []byte) bool)
	Close()
}
