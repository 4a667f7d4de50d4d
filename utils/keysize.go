package utils

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

const (
	defaultMinKeyLen  = 2
	defaultMaxKeyLen  = 40
	defaultCandidates = 10

	// consecutive blocks compared per key length
	distanceBlocks = 4
)

// KeyCandidate is a key length hypothesis and its normalized block distance.
// Lower scores are more likely to be the real key length.
type KeyCandidate struct {
	Length int
	Score  float64
}

// BlockDistance compares the first four keyLen sized blocks of data and
// returns the weighted sum of the bit distances between neighbours,
// normalized by keyLen:
//
//	d(B0,B1)/k + d(B1,B2)/k + d(B2,B3)/k/3
//
// With symmetric set, the three distances are averaged instead.
func BlockDistance(data []byte, keyLen int, symmetric bool) (float64, error) {
	if keyLen < 1 {
		return 0, fmt.Errorf("block distance: key length %d: %w", keyLen, ErrInvalidInput)
	}
	if distanceBlocks*keyLen > len(data) {
		return 0, fmt.Errorf("out of range. data length less than %d*keylen (%d < %d): %w", distanceBlocks, len(data), distanceBlocks*keyLen, ErrInvalidInput)
	}

	dists := make([]float64, 0, distanceBlocks-1)
	for i := 0; i < distanceBlocks-1; i++ {
		b1 := data[i*keyLen : (i+1)*keyLen]
		b2 := data[(i+1)*keyLen : (i+2)*keyLen]
		dist, err := HammingDistance(b1, b2)
		if err != nil {
			return 0, err
		}
		dists = append(dists, float64(dist)/float64(keyLen))
	}

	if symmetric {
		return (dists[0] + dists[1] + dists[2]) / 3, nil
	}
	return dists[0] + dists[1] + dists[2]/3, nil
}

// lessKeyCandidate orders candidates by ascending score, then by length. NaN
// scores sort after everything else.
func lessKeyCandidate(a, b KeyCandidate) bool {
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case aNaN != bNaN:
		return bNaN
	case !aNaN && a.Score != b.Score:
		return a.Score < b.Score
	}
	return a.Length < b.Length
}

func rankKeyLengths(data []byte, min, max, candidates int, symmetric bool) []KeyCandidate {
	out := make([]KeyCandidate, 0)
	for i := min; i < max && distanceBlocks*i < len(data); i++ {
		s, err := BlockDistance(data, i, symmetric)
		if err != nil {
			// the loop bounds keep every block in range
			panic(err)
		}
		out = append(out, KeyCandidate{Length: i, Score: s})
	}

	slices.SortStableFunc(out, lessKeyCandidate)
	if len(out) > candidates {
		out = out[:candidates]
	}
	return out
}

// EstimateKeySizes returns up to ten likely repeating key lengths for ct, best
// first. Ciphertexts too short to hold four blocks of the smallest length
// yield an empty list.
func EstimateKeySizes(ct []byte) []int {
	ranked := rankKeyLengths(ct, defaultMinKeyLen, defaultMaxKeyLen, defaultCandidates, false)
	out := make([]int, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.Length)
	}
	return out
}
