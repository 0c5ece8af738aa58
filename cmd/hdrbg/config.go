package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"pkt.systems/hdrbg"
	"pkt.systems/hdrbg/entropy"
)

// config is read from the environment first; command-line flags override it.
type config struct {
	PredictionResistance bool   `env:"HDRBG_PREDICTION_RESISTANCE" envDefault:"false"`
	Entropy              string `env:"HDRBG_ENTROPY" envDefault:"os"`
	Salt                 string `env:"HDRBG_SALT"`
	Iterations           int    `env:"HDRBG_PBKDF2_ITERATIONS" envDefault:"600000"`
	ChunkSize            int    `env:"HDRBG_CHUNK_SIZE" envDefault:"65536"`
}

func parseEnv(environ []string) (config, error) {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Entropy {
	case "os", "passphrase":
	default:
		return fmt.Errorf("entropy must be os or passphrase, got %q", c.Entropy)
	}
	if c.ChunkSize < 1 || c.ChunkSize > hdrbg.MaxRequestLength {
		return fmt.Errorf("chunk size must be within [1, %d], got %d", hdrbg.MaxRequestLength, c.ChunkSize)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("pbkdf2 iterations must be > 0, got %d", c.Iterations)
	}
	if c.Entropy == "passphrase" && c.Salt == "" {
		return fmt.Errorf("passphrase entropy needs a hex salt (HDRBG_SALT or --salt) to be reproducible")
	}
	return nil
}

// instantiate builds the generator selected by cfg. Passphrase mode is
// deterministic: the same passphrase and salt always produce the same stream.
func (a *app) instantiate() (*hdrbg.DRBG, error) {
	if err := a.cfg.validate(); err != nil {
		return nil, err
	}
	if a.cfg.Entropy == "os" {
		return hdrbg.New()
	}
	salt, err := hex.DecodeString(a.cfg.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	params := entropy.DefaultPBKDF2Params(salt)
	params.Iterations = a.cfg.Iterations
	src, _, err := entropy.PromptAndDerive(a.stdin, "Passphrase: ", a.stderr, params)
	if err != nil {
		return nil, err
	}
	return hdrbg.New(hdrbg.WithEntropySource(src), hdrbg.WithNonce(salt))
}
