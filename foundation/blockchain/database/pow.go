package database

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/minichain/ledger/foundation/blockchain/signature"
)

// ErrNonceExhausted is returned from ProofOfWork when every nonce allowed by
// the search bound has been tried without solving the block.
var ErrNonceExhausted = errors.New("nonce search space exhausted")

// maxSearchNonce is the largest nonce the search will ever try.
const maxSearchNonce = math.MaxUint64 - 1

// ctxCheckInterval is how many attempts are made between checks for
// cancellation.
const ctxCheckInterval = 1 << 12

// EventHandler defines a function that is called when events
// occur in the processing of mining blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

type powConfig struct {
	workers   int
	maxNonce  uint64
	evHandler EventHandler
}

// POWOption represents a function that changes how the proof of work
// search is performed.
type POWOption func(cfg *powConfig)

// WithWorkers splits the search across n goroutines. The result is the same
// block the single goroutine search would find.
func WithWorkers(n int) POWOption {
	return func(cfg *powConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithMaxNonce bounds the search. If no nonce up to and including n solves
// the block, ErrNonceExhausted is returned.
func WithMaxNonce(n uint64) POWOption {
	return func(cfg *powConfig) {
		cfg.maxNonce = min(n, maxSearchNonce)
	}
}

// WithEvHandler provides a handler for progress events.
func WithEvHandler(ev EventHandler) POWOption {
	return func(cfg *powConfig) {
		if ev != nil {
			cfg.evHandler = ev
		}
	}
}

// =============================================================================

// POWArgs represents the set of arguments required to construct and mine
// a new block.
type POWArgs struct {
	Number        uint64
	PrevBlockHash string
	Difficulty    uint
	Trans         []Tx
	Options       []POWOption
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	nb := CreateBlock(args.Number, args.PrevBlockHash, args.Trans)
	return ProofOfWork(ctx, nb, args.Difficulty, args.Options...)
}

// ProofOfWork does the work of mining to find a valid hash for the specified
// block. Nonces are tried in increasing order starting with the block's
// current nonce, so the smallest solving nonce is always the one returned.
// The block passed in is not changed; the sealed block is returned.
func ProofOfWork(ctx context.Context, block Block, difficulty uint, opts ...POWOption) (Block, error) {
	cfg := powConfig{
		workers:   1,
		maxNonce:  maxSearchNonce,
		evHandler: func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ev := cfg.evHandler

	ev("database: ProofOfWork: MINING: started: blk[%d]: difficulty[%d]: workers[%d]", block.Header.Number, difficulty, cfg.workers)
	defer ev("database: ProofOfWork: MINING: completed: blk[%d]", block.Header.Number)

	// Log the transactions that are a part of this potential block.
	for _, tx := range block.Trans {
		ev("database: ProofOfWork: MINING: tx[%s]", tx)
	}

	start := block.Header.Nonce
	if start > cfg.maxNonce {
		return Block{}, ErrNonceExhausted
	}

	s := searcher{
		prefix:     blockPrefix(block.Header.Number, block.Header.PrevBlockHash, block.Header.TimeStamp, block.Trans),
		difficulty: difficulty,
		maxNonce:   cfg.maxNonce,
		ev:         ev,
	}

	var nonce uint64
	var found bool
	switch {
	case cfg.workers == 1:
		nonce, found = s.sequential(ctx, start)
	default:
		nonce, found = s.parallel(ctx, start, cfg.workers)
	}

	if ctx.Err() != nil {
		ev("database: ProofOfWork: MINING: CANCELLED: attempts[%d]", s.attempts.Load())
		return Block{}, ctx.Err()
	}

	if !found {
		ev("database: ProofOfWork: MINING: EXHAUSTED: maxNonce[%d]: attempts[%d]", cfg.maxNonce, s.attempts.Load())
		return Block{}, ErrNonceExhausted
	}

	// The nonce and hash are only ever set together on the copy returned.
	sealed := block.Copy()
	sealed.Header.Nonce = nonce
	sealed.Header.Hash = CalculateHash(sealed.Header.Number, sealed.Header.PrevBlockHash, sealed.Header.TimeStamp, sealed.Trans, nonce)

	ev("database: ProofOfWork: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", sealed.Header.PrevBlockHash, sealed.Header.Hash)
	ev("database: ProofOfWork: MINING: nonce[%d]: attempts[%d]", nonce, s.attempts.Load())

	return sealed, nil
}

// =============================================================================

// searcher holds the state shared by every goroutine searching for a nonce.
type searcher struct {
	prefix     []byte
	difficulty uint
	maxNonce   uint64
	ev         EventHandler
	attempts   atomic.Uint64
}

// solves hashes the candidate nonce using buf as scratch space.
func (s *searcher) solves(buf []byte, nonce uint64) ([]byte, bool) {
	buf = strconv.AppendUint(buf[:len(s.prefix)], nonce, 10)
	return buf, IsHashSolved(s.difficulty, signature.Hash(buf))
}

// record counts an attempt and reports progress every million attempts.
func (s *searcher) record() {
	if n := s.attempts.Add(1); n%1_000_000 == 0 {
		s.ev("database: ProofOfWork: MINING: attempts[%d]", n)
	}
}

// sequential walks the nonce space one value at a time.
func (s *searcher) sequential(ctx context.Context, start uint64) (uint64, bool) {
	buf := make([]byte, len(s.prefix), len(s.prefix)+20)
	copy(buf, s.prefix)

	for nonce := start; ; nonce++ {
		if (nonce-start)%ctxCheckInterval == 0 && ctx.Err() != nil {
			return 0, false
		}

		s.record()

		var ok bool
		if buf, ok = s.solves(buf, nonce); ok {
			return nonce, true
		}

		if nonce == s.maxNonce {
			return 0, false
		}
	}
}

// parallel gives each worker every n-th nonce. A worker stops once its next
// candidate is not smaller than the best solution found so far, which leaves
// the smallest solving nonce as the winner.
func (s *searcher) parallel(ctx context.Context, start uint64, workers int) (uint64, bool) {
	const none = math.MaxUint64

	var best atomic.Uint64
	best.Store(none)

	stride := uint64(workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(offset uint64) {
			defer wg.Done()

			buf := make([]byte, len(s.prefix), len(s.prefix)+20)
			copy(buf, s.prefix)

			if s.maxNonce-start < offset {
				return
			}

			var tries uint64
			for nonce := start + offset; nonce < best.Load(); nonce += stride {
				tries++
				if tries%ctxCheckInterval == 0 && ctx.Err() != nil {
					return
				}

				s.record()

				var ok bool
				if buf, ok = s.solves(buf, nonce); ok {
					for {
						cur := best.Load()
						if nonce >= cur || best.CompareAndSwap(cur, nonce) {
							break
						}
					}
					return
				}

				if s.maxNonce-nonce < stride {
					return
				}
			}
		}(uint64(w))
	}

	wg.Wait()

	nonce := best.Load()
	return nonce, nonce != none
}
