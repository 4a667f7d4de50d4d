package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	modeSingle    = "single"
	modeRepeating = "repeating"
	modeDetect    = "detect"
	modeKeySizes  = "keysizes"

	encodingHex    = "hex"
	encodingBase64 = "base64"
	encodingRaw    = "raw"
)

type Config struct {
	Mode          string
	Encoding      string
	Candidates    int
	MinKeySize    int
	MaxKeySize    int
	Workers       int
	Symmetric     bool
	MinConfidence float64
	LogLevel      string
	// Input is the ciphertext file. Empty means stdin.
	Input string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("xorbreak", pflag.ContinueOnError)
	fs.String("mode", modeRepeating, "one of single, repeating, detect, keysizes")
	fs.String("encoding", encodingBase64, "ciphertext encoding: hex, base64 or raw")
	fs.Int("candidates", 10, "number of key sizes to try")
	fs.Int("min-keysize", 2, "smallest key size to try")
	fs.Int("max-keysize", 40, "key sizes must be below this")
	fs.Int("workers", 1, "key sizes evaluated in parallel")
	fs.Bool("symmetric", false, "average block distances evenly when ranking key sizes")
	fs.Float64("min-confidence", 0, "minimum English confidence of the plaintext, 0 disables the check")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("config", "", "optional config file (yaml, toml or json)")
	return fs
}

// loadConfig resolves flags, XORBREAK_* environment variables and an optional
// config file, in that order of precedence.
func loadConfig(args []string) (Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("xorbreak")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Mode:          v.GetString("mode"),
		Encoding:      v.GetString("encoding"),
		Candidates:    v.GetInt("candidates"),
		MinKeySize:    v.GetInt("min-keysize"),
		MaxKeySize:    v.GetInt("max-keysize"),
		Workers:       v.GetInt("workers"),
		Symmetric:     v.GetBool("symmetric"),
		MinConfidence: v.GetFloat64("min-confidence"),
		LogLevel:      v.GetString("log-level"),
		Input:         fs.Arg(0),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Mode {
	case modeSingle, modeRepeating, modeDetect, modeKeySizes:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.Encoding {
	case encodingHex, encodingBase64, encodingRaw:
	default:
		return fmt.Errorf("unknown encoding %q", c.Encoding)
	}
	if c.Mode == modeDetect && c.Encoding == encodingRaw {
		return fmt.Errorf("detect mode needs line oriented hex or base64 input")
	}
	if c.Candidates < 1 {
		return fmt.Errorf("candidates must be positive, got %d", c.Candidates)
	}
	if c.MinKeySize < 1 || c.MaxKeySize <= c.MinKeySize {
		return fmt.Errorf("invalid key size range [%d, %d)", c.MinKeySize, c.MaxKeySize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min-confidence must be within [0, 1], got %f", c.MinConfidence)
	}
	return nil
}
