package utils

import (
	"fmt"
	"math"
)

// RecoverSingleByteKey tries every possible key byte against ct and returns the
// one whose decryption scores as most English-like, with that score. Keys are
// tried in ascending order and only a strictly better score replaces the
// current best, so ties go to the lowest key.
func RecoverSingleByteKey(ct []byte) (byte, float64, error) {
	if len(ct) == 0 {
		return 0, 0, fmt.Errorf("recover single byte key: empty ciphertext: %w", ErrInvalidInput)
	}

	var (
		best    byte
		currMax = math.Inf(-1)
	)
	buf := make([]byte, len(ct))
	for i := 0; i <= math.MaxUint8; i++ {
		k := byte(i)
		for j := range ct {
			buf[j] = ct[j] ^ k
		}
		score, err := ScoreEnglish(buf)
		if err != nil {
			return 0, 0, err
		}
		if score > currMax {
			currMax = score
			best = k
		}
	}
	return best, currMax, nil
}

// Detection is the outcome of searching a list of ciphertexts for the one
// encrypted with a single byte key.
type Detection struct {
	Index     int
	Key       byte
	Score     float64
	Plaintext []byte
}

// DetectSingleByteXor recovers a single byte key for every non-empty line and
// returns the line whose decryption scores best. Earlier lines win ties.
func DetectSingleByteXor(lines [][]byte) (Detection, error) {
	out := Detection{Index: -1, Score: math.Inf(-1)}
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		k, score, err := RecoverSingleByteKey(line)
		if err != nil {
			return Detection{}, err
		}
		if out.Index < 0 || score > out.Score {
			out = Detection{Index: i, Key: k, Score: score}
		}
	}
	if out.Index < 0 {
		return Detection{}, fmt.Errorf("detect single byte xor: no non-empty lines: %w", ErrInvalidInput)
	}
	out.Plaintext = XorCipher(lines[out.Index], out.Key)
	return out, nil
}
