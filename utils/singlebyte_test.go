package utils

import (
	"bufio"
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet1Challenge3(t *testing.T) {
	testMsg, err := hex.DecodeString("1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736")
	require.NoError(t, err)

	key, score, err := RecoverSingleByteKey(testMsg)
	require.NoError(t, err)
	assert.Equal(t, byte('X'), key)
	assert.Equal(t, "Cooking MC's like a pound of bacon", string(XorCipher(testMsg, key)))

	want, err := ScoreEnglish(XorCipher(testMsg, key))
	require.NoError(t, err)
	assert.Equal(t, want, score)
}

func TestRecoverSingleByteKey(t *testing.T) {
	msg := []byte("Cooking MC's like a pound of bacon")

	tests := []struct {
		name    string
		ct      []byte
		want    byte
		wantErr bool
	}{
		{
			name: "no key",
			ct:   msg,
			want: 0x00,
		},
		{
			name: "top of key space",
			ct:   XorCipher(msg, 0xff),
			want: 0xff,
		},
		{
			// xoring with 0x20 only swaps case, which scores the same
			name: "tie keeps lowest key",
			ct:   []byte("etaoinshrdlu"),
			want: 0x00,
		},
		{
			name: "one byte",
			ct:   []byte{0x00},
			want: ' ',
		},
		{
			name:    "empty",
			ct:      []byte{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := RecoverSingleByteKey(tt.ct)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecoverSingleByteKeyTie(t *testing.T) {
	ct := []byte("etaoinshrdlu")
	lower, err := ScoreEnglish(ct)
	require.NoError(t, err)
	upper, err := ScoreEnglish(XorCipher(ct, 0x20))
	require.NoError(t, err)
	require.Equal(t, lower, upper)

	key, score, err := RecoverSingleByteKey(ct)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), key)
	assert.Equal(t, lower, score)
}

func TestSet1Challenge4(t *testing.T) {
	f, err := os.Open("testdata/detect.txt")
	require.NoError(t, err)
	defer f.Close()

	lines := make([][]byte, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line, err := DecodeHex(scanner.Text())
		require.NoError(t, err)
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())

	got, err := DetectSingleByteXor(lines)
	require.NoError(t, err)
	assert.Equal(t, 17, got.Index)
	assert.Equal(t, byte(0x35), got.Key)
	assert.Equal(t, "Now that the party is jumping\n", string(got.Plaintext))
}

func TestDetectSingleByteXor(t *testing.T) {
	t.Run("no lines", func(t *testing.T) {
		_, err := DetectSingleByteXor(nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("only empty lines", func(t *testing.T) {
		_, err := DetectSingleByteXor([][]byte{{}, nil})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("skips empty lines", func(t *testing.T) {
		enc := XorCipher([]byte("Cooking MC's like a pound of bacon"), 'X')
		got, err := DetectSingleByteXor([][]byte{nil, enc, {}})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Index)
		assert.Equal(t, byte('X'), got.Key)
	})

	t.Run("first wins ties", func(t *testing.T) {
		enc := XorCipher([]byte("Cooking MC's like a pound of bacon"), 'X')
		got, err := DetectSingleByteXor([][]byte{enc, enc})
		require.NoError(t, err)
		assert.Equal(t, 0, got.Index)
	})
}
