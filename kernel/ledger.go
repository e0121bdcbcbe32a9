package kernel

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/number571/unionledger/logger"
)

var (
	_ Ledger = &LedgerT{}
)

var (
	ErrMempoolFull  = errors.New("mempool is full")
	ErrAlreadyKnown = errors.New("transaction already pending or committed")
	ErrBadAddress   = errors.New("address is not valid utf-8")
)

// LedgerT owns the chain and the pending pool of one authority. Mint, Submit
// and Commit are serialized; reads share the lock so a commit is observed
// all at once.
type LedgerT struct {
	mtx sync.RWMutex

	settings  Settings
	log       logger.Logger
	db        KeyValueDB
	chain     Chain
	mempool   Mempool
	validator Validator
	authority PrivKey
}

// NewLedger creates an empty ledger with a fresh authority key.
func NewLedger(settings Settings) (Ledger, error) {
	settings = settings.withDefaults()

	priv, err := NewPrivKey(settings.Scheme)
	if err != nil {
		return nil, errors.Wrap(err, "authority key")
	}

	return newLedger(settings, priv)
}

// LoadLedger creates an empty ledger for an existing authority key.
func LoadLedger(settings Settings, authority PrivKey) (Ledger, error) {
	if authority == nil {
		return nil, errors.New("authority key is nil")
	}
	settings = settings.withDefaults()
	settings.Scheme = authority.Scheme()
	return newLedger(settings, authority)
}

func newLedger(settings Settings, priv PrivKey) (Ledger, error) {
	db := NewMemDB()
	if db == nil {
		return nil, errors.New("open memory storage")
	}

	chain, err := NewChain(db, settings.CacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	ledger := &LedgerT{
		settings:  settings,
		log:       settings.Logger,
		db:        db,
		chain:     chain,
		mempool:   NewMempool(db),
		validator: NewValidator(priv.PubKey().Address()),
		authority: priv,
	}

	ledger.log.Info("LEDGER", "authority=%s scheme=%s", priv.PubKey().Address(), priv.Scheme())
	return ledger, nil
}

func (ledger *LedgerT) Authority() PubKey {
	return ledger.authority.PubKey()
}

// Mint issues new value to receivers. It bypasses validation and the pool
// limit: the authority is trusted and issuance is not bound by conservation.
// Receivers must be valid UTF-8 to be stored.
func (ledger *LedgerT) Mint(receivers map[Address]uint64) (Transaction, error) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	tx := NewTransaction(ledger.authority, nil, receivers)
	if !validAddresses(tx) {
		return nil, ErrBadAddress
	}
	ledger.mempool.Push(tx)

	ledger.log.Info("MINT", "hash=%X receivers=%d mempool=%d",
		[]byte(tx.Hash()), len(receivers), ledger.mempool.Length())
	return tx, nil
}

// Submit validates tx against committed history, checking the signature
// with pub bound to the sender address, and queues it on success. A
// rejection carries the failed rules in the verdict and an error wrapping
// ErrRejected. ErrAlreadyKnown and ErrMempoolFull come with an accepting
// verdict. The ledger is untouched unless the error is nil.
func (ledger *LedgerT) Submit(tx Transaction, pub PubKey) (Verdict, error) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if tx == nil {
		return Verdict{}, errors.New("transaction is nil")
	}

	verdict := ledger.validator.Validate(tx, pub, ledger.chain)
	if !verdict.OK() {
		ledger.log.Warning("REJECT", "hash=%X sender=%s rules=%v",
			[]byte(tx.Hash()), tx.Sender(), verdict.Failed())
		return verdict, verdict.Err()
	}

	if _, ok := ledger.chain.Find(tx.Hash()); ok || ledger.mempool.TX(tx.Hash()) != nil {
		return verdict, ErrAlreadyKnown
	}

	if ledger.mempool.Length() >= ledger.settings.MempoolSize {
		return verdict, ErrMempoolFull
	}

	ledger.mempool.Push(tx)
	ledger.log.Info("SUBMIT", "hash=%X sender=%s mempool=%d",
		[]byte(tx.Hash()), tx.Sender(), ledger.mempool.Length())

	return verdict, nil
}

// Commit freezes the pending pool into a signed block. Pool order is the
// commitment order: a transaction reusing an outpoint already consumed by
// an earlier pool entry is dropped so history never holds a double spend.
func (ledger *LedgerT) Commit() Block {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var (
		pending = ledger.mempool.Drain()
		used    = make(map[Outpoint]struct{})
		txs     = make([]Transaction, 0, len(pending))
	)

	for _, tx := range pending {
		if !tx.IsValid() {
			ledger.log.Warning("DROP", "hash=%X sender=%s reason=%s",
				[]byte(tx.Hash()), tx.Sender(), RuleIntegrity)
			continue
		}
		if conflicts(tx, used) {
			ledger.log.Warning("DROP", "hash=%X sender=%s reason=%s",
				[]byte(tx.Hash()), tx.Sender(), RuleDoubleSpend)
			continue
		}
		for _, in := range tx.Inputs() {
			used[in.Outpoint(tx.Sender())] = struct{}{}
		}
		txs = append(txs, tx)
	}

	block := NewBlock(ledger.authority, ledger.chain.Length(), ledger.chain.LastHash(), txs)
	if err := ledger.chain.Append(block); err != nil {
		// The block is built from the chain's own tip under the write lock.
		panic(errors.Wrap(err, "commit"))
	}

	ledger.log.Info("COMMIT", "index=%d hash=%X txs=%d",
		block.Index(), []byte(block.Hash()), len(txs))
	return block
}

func (ledger *LedgerT) Pending() []Transaction {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.mempool.List()
}

func (ledger *LedgerT) PendingLength() uint64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.mempool.Length()
}

func (ledger *LedgerT) Length() Height {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.chain.Length()
}

func (ledger *LedgerT) TX(index Height, txIndex uint64) Transaction {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.chain.TX(index, txIndex)
}

func (ledger *LedgerT) IsSpent(out Outpoint) bool {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.chain.IsSpent(out)
}

func (ledger *LedgerT) Close() {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.db.Close()
}

func conflicts(tx Transaction, used map[Outpoint]struct{}) bool {
	for _, in := range tx.Inputs() {
		if _, ok := used[in.Outpoint(tx.Sender())]; ok {
			return true
		}
	}
	return false
}
