package utils

import "fmt"

const (
	spaceClass = 26
	punctClass = 27
	otherClass = 28
	numClasses = 29
)

var (
	punc = []byte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~0123456789")

	// byte -> index into freq
	symbolClass [256]uint8
	// bytes that can appear in ordinary text
	printable [256]bool

	// https://en.wikipedia.org/wiki/Letter_frequency, extended with space,
	// digits/punctuation and a catch-all for anything else
	freq = [numClasses]float64{
		0.08167, // a
		0.01492, // b
		0.02782, // c
		0.04253, // d
		0.12702, // e
		0.02228, // f
		0.02015, // g
		0.06094, // h
		0.06966, // i
		0.00153, // j
		0.00772, // k
		0.04025, // l
		0.02406, // m
		0.06749, // n
		0.07507, // o
		0.01929, // p
		0.00095, // q
		0.05987, // r
		0.06327, // s
		0.09056, // t
		0.02758, // u
		0.00978, // v
		0.02360, // w
		0.00150, // x
		0.01974, // y
		0.00074, // z
		0.12900, // space
		0.08000, // digits and punctuation
		0.00000, // other
	}
)

func init() {
	for i := range symbolClass {
		symbolClass[i] = otherClass
	}
	for c := 'a'; c <= 'z'; c++ {
		symbolClass[c] = uint8(c - 'a')
		symbolClass[c-'a'+'A'] = uint8(c - 'a')
	}
	symbolClass[' '] = spaceClass
	for _, c := range punc {
		symbolClass[c] = punctClass
	}

	for c := 0x20; c < 0x7f; c++ {
		printable[c] = true
	}
	printable['\t'] = true
	printable['\n'] = true
	printable['\r'] = true
}

// ScoreEnglish returns the negative sum of squared differences between the
// symbol class frequencies of b and the reference English distribution.
// Scores closer to zero are more English-like. Only the ordering of scores is
// meaningful.
func ScoreEnglish(b []byte) (float64, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("score english: empty text: %w", ErrInvalidInput)
	}

	var counts [numClasses]int
	for _, c := range b {
		counts[symbolClass[c]]++
	}

	total := float64(len(b))
	score := float64(0)
	for i, want := range freq {
		diff := want - float64(counts[i])/total
		score -= diff * diff
	}
	return score, nil
}

// IsPrintable reports whether every byte of b is printable ASCII or common
// whitespace.
func IsPrintable(b []byte) bool {
	for _, c := range b {
		if !printable[c] {
			return false
		}
	}
	return true
}
