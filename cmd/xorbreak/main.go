// Command xorbreak recovers single byte and repeating key xor keys from
// English ciphertext.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krehermann/xorbreak/utils"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// realMain returns the process exit code so deferred cleanup, including
// flushing the logger, runs before the process exits.
func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			logger.Error("open input", zap.Error(err))
			return 1
		}
		defer f.Close()
		in = f
	}

	if err := run(ctx, cfg, in, stdout, logger); err != nil {
		logger.Error("xorbreak failed", zap.String("mode", cfg.Mode), zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, logger *zap.Logger) error {
	if cfg.Mode == modeDetect {
		lines, err := readLines(in, cfg.Encoding)
		if err != nil {
			return err
		}
		d, err := utils.DetectSingleByteXor(lines)
		if err != nil {
			return err
		}
		logger.Info("detected single byte xor", zap.Int("line", d.Index+1), zap.Int("lines", len(lines)))
		fmt.Fprintf(out, "line: %d\n", d.Index+1)
		printKey(out, []byte{d.Key}, d.Score, d.Plaintext)
		return nil
	}

	ct, err := readCiphertext(in, cfg.Encoding)
	if err != nil {
		return err
	}
	logger.Debug("read ciphertext", zap.Int("bytes", len(ct)))

	switch cfg.Mode {
	case modeSingle:
		k, score, err := utils.RecoverSingleByteKey(ct)
		if err != nil {
			return err
		}
		printKey(out, []byte{k}, score, utils.XorCipher(ct, k))
		return nil
	case modeKeySizes:
		v := utils.NewVigenere(ct, searchOptions(cfg, logger)...)
		for _, c := range v.RankKeyLengths() {
			fmt.Fprintf(out, "%d\t%f\n", c.Length, c.Score)
		}
		return nil
	}

	opts := searchOptions(cfg, logger)
	if cfg.MinConfidence > 0 {
		opts = append(opts, utils.WithMinConfidence(utils.NewLanguageScanner(), cfg.MinConfidence))
	}
	res, err := utils.NewVigenere(ct, opts...).Decrypt(ctx)
	if errors.Is(err, utils.ErrInconclusive) {
		logger.Warn("plaintext does not look like English", zap.Float64("confidence", res.Confidence))
	} else if err != nil {
		return err
	}
	printKey(out, res.Key, res.Score, res.Output)
	return err
}

func searchOptions(cfg Config, logger *zap.Logger) []utils.Option {
	opts := []utils.Option{
		utils.WithCandidates(cfg.Candidates),
		utils.WithKeySizeRange(cfg.MinKeySize, cfg.MaxKeySize),
		utils.WithWorkers(cfg.Workers),
		utils.WithLogger(logger),
	}
	if cfg.Symmetric {
		opts = append(opts, utils.WithSymmetricWeight())
	}
	return opts
}

func printKey(out io.Writer, key []byte, score float64, plaintext []byte) {
	fmt.Fprintf(out, "key (hex): %s\n", hex.EncodeToString(key))
	fmt.Fprintf(out, "key (text): %q\n", key)
	fmt.Fprintf(out, "score: %f\n", score)
	fmt.Fprintf(out, "plaintext:\n%s\n", plaintext)
}

func decode(text string, encoding string) ([]byte, error) {
	switch encoding {
	case encodingHex:
		return utils.DecodeHex(text)
	case encodingBase64:
		return utils.DecodeBase64(text)
	}
	return []byte(text), nil
}

func readCiphertext(in io.Reader, encoding string) ([]byte, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if encoding == encodingRaw {
		return raw, nil
	}
	return decode(string(raw), encoding)
}

func readLines(in io.Reader, encoding string) ([][]byte, error) {
	lines := make([][]byte, 0)
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		// blank lines stay in place so indexes match line numbers
		text := bytes.TrimSpace(scanner.Bytes())
		line, err := decode(string(text), encoding)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
