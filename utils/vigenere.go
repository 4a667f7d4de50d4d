package utils

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Vigenere breaks repeating key xor. Key lengths are estimated from the
// ciphertext, a key is recovered for each of the best estimates one column at
// a time, and the key whose decryption looks most like English wins.
type Vigenere struct {
	data       []byte
	candidates int
	minKeyLen  int
	maxKeyLen  int
	workers    int
	symmetric  bool

	confidencer   Confidencer
	minConfidence float64

	logger *zap.Logger
}

type Option func(*Vigenere)

// WithCandidates sets how many key lengths are tried.
func WithCandidates(n int) Option {
	return func(v *Vigenere) {
		if n > 0 {
			v.candidates = n
		}
	}
}

// WithKeySizeRange limits the key lengths considered to [min, max).
func WithKeySizeRange(min, max int) Option {
	return func(v *Vigenere) {
		if min > 0 && max > min {
			v.minKeyLen = min
			v.maxKeyLen = max
		}
	}
}

// WithWorkers evaluates key lengths on n goroutines. The result does not
// depend on n.
func WithWorkers(n int) Option {
	return func(v *Vigenere) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithSymmetricWeight averages the three block distances evenly when ranking
// key lengths.
func WithSymmetricWeight() Option {
	return func(v *Vigenere) {
		v.symmetric = true
	}
}

// WithMinConfidence makes Decrypt return ErrInconclusive when c rates the best
// plaintext below threshold.
func WithMinConfidence(c Confidencer, threshold float64) Option {
	return func(v *Vigenere) {
		v.confidencer = c
		v.minConfidence = threshold
	}
}

// WithLogger traces key length ranking and scoring at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(v *Vigenere) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVigenere returns a breaker for data that tries the ten best key lengths
// in [2, 40) on a single goroutine unless opts say otherwise.
func NewVigenere(data []byte, opts ...Option) *Vigenere {
	v := &Vigenere{
		data:       data,
		candidates: defaultCandidates,
		minKeyLen:  defaultMinKeyLen,
		maxKeyLen:  defaultMaxKeyLen,
		workers:    1,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RankKeyLengths returns the most likely key lengths, best first.
func (v *Vigenere) RankKeyLengths() []KeyCandidate {
	return rankKeyLengths(v.data, v.minKeyLen, v.maxKeyLen, v.candidates, v.symmetric)
}

type Result struct {
	Output []byte
	Key    []byte
	// KeySize is the key length hypothesis that produced Key. Key may be
	// shorter when the recovered key repeats itself.
	KeySize    int
	Score      float64
	Confidence float64
}

type keyResult struct {
	rank      int
	key       []byte
	output    []byte
	score     float64
	printable bool
}

// better reports whether r should replace the current best. Printable output
// beats unprintable output, then the higher score wins, then the better
// ranked key length.
func (r *keyResult) better(best *keyResult) bool {
	if best == nil {
		return true
	}
	if r.printable != best.printable {
		return r.printable
	}
	if r.score != best.score {
		return r.score > best.score
	}
	return r.rank < best.rank
}

// Decrypt recovers the key and plaintext. Ciphertexts too short to rank key
// lengths are treated as single byte xor.
func (v *Vigenere) Decrypt(ctx context.Context) (Result, error) {
	if len(v.data) == 0 {
		return Result{}, fmt.Errorf("vigenere decrypt: empty ciphertext: %w", ErrInvalidInput)
	}

	keys := v.RankKeyLengths()
	if len(keys) == 0 {
		v.logger.Debug("ciphertext too short to rank key lengths, trying single byte key",
			zap.Int("length", len(v.data)))
		keys = []KeyCandidate{{Length: 1}}
	}
	v.logger.Debug("ranked key lengths", zap.Any("candidates", keys))

	jobs := make(chan int)
	results := make(chan *keyResult, len(keys))
	go func() {
		defer close(jobs)
		for i := range keys {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < v.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rank := range jobs {
				results <- v.tryKeyLength(rank, keys[rank].Length)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var best *keyResult
PROCESS:
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case r, ok := <-results:
			if !ok {
				break PROCESS
			}
			v.logger.Debug("scored key",
				zap.Int("rank", r.rank),
				zap.Int("length", len(r.key)),
				zap.ByteString("key", r.key),
				zap.Float64("score", r.score),
				zap.Bool("printable", r.printable))
			if r.better(best) {
				best = r
			}
		}
	}
	// results closes early when the feeder stopped on cancellation
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	out := Result{
		Output:  best.output,
		Key:     shortestPeriod(best.key),
		KeySize: len(best.key),
		Score:   best.score,
	}
	v.logger.Debug("best key",
		zap.ByteString("key", out.Key),
		zap.Int("keySize", out.KeySize),
		zap.Float64("score", out.Score))

	if v.confidencer != nil {
		out.Confidence = v.confidencer.Confidence(out.Output)
		if out.Confidence < v.minConfidence {
			return out, fmt.Errorf("language confidence %f below %f: %w", out.Confidence, v.minConfidence, ErrInconclusive)
		}
	}
	return out, nil
}

// tryKeyLength recovers one key byte per column for a key of length n and
// scores the resulting decryption.
func (v *Vigenere) tryKeyLength(rank, n int) *keyResult {
	tBlocks := transpose(v.data, n)
	if n != len(tBlocks) {
		err := fmt.Errorf("key and block length don't match %d %d", n, len(tBlocks))
		panic(err)
	}

	key := make([]byte, n)
	for i, b := range tBlocks {
		k, _, err := RecoverSingleByteKey(b)
		if err != nil {
			panic(err)
		}
		key[i] = k
	}

	dec, err := XorEncrypt(v.data, key)
	if err != nil {
		panic(err)
	}
	score, err := ScoreEnglish(dec)
	if err != nil {
		panic(err)
	}
	return &keyResult{
		rank:      rank,
		key:       key,
		output:    dec,
		score:     score,
		printable: IsPrintable(dec),
	}
}

// transpose groups data by position modulo n: column i holds bytes i, i+n,
// i+2n, ... and so every byte xored with the same key byte. n must not exceed
// len(data).
func transpose(data []byte, n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, 0, len(data)/n+1)
	}
	for i, b := range data {
		out[i%n] = append(out[i%n], b)
	}
	return out
}

// shortestPeriod returns the shortest prefix of key that repeats to form the
// whole key.
func shortestPeriod(key []byte) []byte {
PERIOD:
	for p := 1; p < len(key); p++ {
		if len(key)%p != 0 {
			continue
		}
		for i := p; i < len(key); i++ {
			if key[i] != key[i%p] {
				continue PERIOD
			}
		}
		return append([]byte(nil), key[:p]...)
	}
	return key
}

// RecoverRepeatingKey breaks repeating key xor with the default settings and
// returns the key and the score of its decryption.
func RecoverRepeatingKey(ct []byte) ([]byte, float64, error) {
	res, err := NewVigenere(ct).Decrypt(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return res.Key, res.Score, nil
}
