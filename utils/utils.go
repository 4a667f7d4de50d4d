package utils

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/bits"
	"strings"

	"github.com/pemistahl/lingua-go"
)

func HexToBase64(hx string) (string, error) {
	b, err := DecodeHex(hx)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeHex decodes hex text, ignoring any whitespace between digits.
func DecodeHex(hx string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(hx), ""))
}

// DecodeBase64 decodes padded standard base64, ignoring line breaks and other
// whitespace.
func DecodeBase64(b64 string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(b64), ""))
}

func FixedXor(b1, b2 []byte) ([]byte, error) {
	if len(b1) != len(b2) {
		return nil, fmt.Errorf("buffers must be the same length (%d, %d): %w", len(b1), len(b2), ErrInvalidInput)
	}

	out := make([]byte, len(b1))
	for i := 0; i < len(out); i++ {
		out[i] = b1[i] ^ b2[i]
	}
	return out, nil
}

// XorCipher xors every byte of msg with cipher. Applying it twice with the same
// cipher returns the original message.
func XorCipher(msg []byte, cipher byte) []byte {
	out := make([]byte, len(msg))
	for i := 0; i < len(out); i++ {
		out[i] = msg[i] ^ cipher
	}
	return out
}

// XorEncrypt xors msg with key repeated to the length of msg. Encryption and
// decryption are the same operation.
func XorEncrypt(msg, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("xor encrypt: empty key: %w", ErrInvalidInput)
	}
	out := make([]byte, len(msg))
	for i := 0; i < len(out); i += 1 {
		out[i] = msg[i] ^ key[i%len(key)]
	}
	return out, nil
}

// HammingDistance counts the differing bits of two equal length buffers.
func HammingDistance(b1, b2 []byte) (int, error) {
	if len(b1) != len(b2) {
		return 0, fmt.Errorf("hamming distance: buffers must be the same length (%d, %d): %w", len(b1), len(b2), ErrInvalidInput)
	}
	cnt := 0
	for i := range b1 {
		cnt += bits.OnesCount8(b1[i] ^ b2[i])
	}
	return cnt, nil
}

// Confidencer rates how likely a text is to be written in some language, from
// 0 (not at all) to 1 (certainly).
type Confidencer interface {
	Confidence(text []byte) float64
}

type LanguageScanner struct {
	detector lingua.LanguageDetector
	lang     lingua.Language
}

var _ Confidencer = (*LanguageScanner)(nil)

// NewLanguageScanner returns a scanner rating texts as English. The detector
// weighs English against candidates, or against all known languages when none
// are given.
func NewLanguageScanner(candidates ...lingua.Language) *LanguageScanner {
	builder := lingua.NewLanguageDetectorBuilder()
	langs := []lingua.Language{lingua.English}
	for _, l := range candidates {
		if l != lingua.English {
			langs = append(langs, l)
		}
	}

	var detector lingua.LanguageDetector
	// lingua needs at least two languages to compare
	if len(langs) < 2 {
		detector = builder.FromAllLanguages().Build()
	} else {
		detector = builder.FromLanguages(langs...).Build()
	}
	return &LanguageScanner{
		detector: detector,
		lang:     lingua.English,
	}
}

func (s *LanguageScanner) Confidence(text []byte) float64 {
	return s.detector.ComputeLanguageConfidence(string(text), s.lang)
}
