package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(mode, encoding string) Config {
	return Config{
		Mode:       mode,
		Encoding:   encoding,
		Candidates: 10,
		MinKeySize: 2,
		MaxKeySize: 40,
		Workers:    2,
		LogLevel:   "debug",
	}
}

func TestRunSingle(t *testing.T) {
	in := strings.NewReader("1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736\n")
	var out bytes.Buffer
	err := run(context.Background(), testConfig(modeSingle, encodingHex), in, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "key (hex): 58\n")
	assert.Contains(t, out.String(), "Cooking MC's like a pound of bacon")
}

func TestRunRepeating(t *testing.T) {
	f, err := os.Open("testdata/secret.b64")
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	err = run(context.Background(), testConfig(modeRepeating, encodingBase64), f, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "key (text): \"secret\"\n")
	assert.Contains(t, out.String(), "The lighthouse keeper had lived on the island")
}

func TestRunKeySizes(t *testing.T) {
	in := strings.NewReader(hex.EncodeToString([]byte("not very long")))
	var out bytes.Buffer
	err := run(context.Background(), testConfig(modeKeySizes, encodingHex), in, &out, zap.NewNop())
	require.NoError(t, err)
	// 13 bytes only fit four blocks of length 2 and 3
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestRunDetect(t *testing.T) {
	f, err := os.Open("../../utils/testdata/detect.txt")
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	err = run(context.Background(), testConfig(modeDetect, encodingHex), f, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "line: 18\n")
	assert.Contains(t, out.String(), "Now that the party is jumping")
}

func TestRunBadInput(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(modeSingle, encodingHex), strings.NewReader("zz"), &out, zap.NewNop())
	assert.Error(t, err)

	err = run(context.Background(), testConfig(modeSingle, encodingHex), strings.NewReader(""), &out, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestRealMain(t *testing.T) {
	ct := "1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736"
	tests := []struct {
		name     string
		args     []string
		stdin    string
		want     int
		wantOut  string
		wantErrs string
	}{
		{
			name:    "ok",
			args:    []string{"--mode", "single", "--encoding", "hex", "--log-level", "error"},
			stdin:   ct,
			want:    0,
			wantOut: "Cooking MC's like a pound of bacon",
		},
		{
			name:     "bad flag",
			args:     []string{"--mode", "aes"},
			want:     2,
			wantErrs: "unknown mode",
		},
		{
			name:     "bad log level",
			args:     []string{"--log-level", "loud"},
			want:     2,
			wantErrs: "loud",
		},
		{
			name: "missing input file",
			args: []string{"--log-level", "error", "does-not-exist.b64"},
			want: 1,
		},
		{
			name:  "undecodable input",
			args:  []string{"--mode", "single", "--encoding", "hex", "--log-level", "error"},
			stdin: "zz",
			want:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			got := realMain(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, stdout.String(), tt.wantOut)
			assert.Contains(t, stderr.String(), tt.wantErrs)
		})
	}
}
