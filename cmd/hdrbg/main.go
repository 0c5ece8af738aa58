// Command hdrbg prints output of a Hash-DRBG: raw or hex bytes, integers,
// ranged integers, fractions, permutations and AEAD keys. It can also seal
// and open messages and write or verify known-answer fixtures.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/alecthomas/kingpin.v2"
)

type app struct {
	cfg    config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stdin, os.Stdout, os.Stderr))
}

func run(args, environ []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseEnv(environ)
	if err != nil {
		fmt.Fprintf(stderr, "hdrbg: %v\n", err)
		return 1
	}
	a := &app{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}

	k := kingpin.New("hdrbg", "Hash-DRBG (SHA-256) random data generator.")
	k.Writer(stderr)
	k.Terminate(nil)
	k.HelpFlag.Short('h')
	k.Flag("prediction-resistance", "Reseed before every request.").Short('p').
		Default(strconv.FormatBool(cfg.PredictionResistance)).BoolVar(&a.cfg.PredictionResistance)
	k.Flag("entropy", "Entropy source: os or passphrase.").
		Default(cfg.Entropy).EnumVar(&a.cfg.Entropy, "os", "passphrase")
	k.Flag("salt", "Hex salt for passphrase entropy.").Default(cfg.Salt).StringVar(&a.cfg.Salt)
	k.Flag("iterations", "PBKDF2 iterations for passphrase entropy.").
		Default(strconv.Itoa(cfg.Iterations)).IntVar(&a.cfg.Iterations)
	k.Flag("chunk-size", "Bytes per generate request when streaming.").
		Default(strconv.Itoa(cfg.ChunkSize)).IntVar(&a.cfg.ChunkSize)

	handlers := a.register(k)
	cmd, err := k.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "hdrbg: %v\n", err)
		return 2
	}
	handler, ok := handlers[cmd]
	if !ok {
		// --help without a command
		return 0
	}
	if err := handler(); err != nil {
		fmt.Fprintf(stderr, "hdrbg %s: %v\n", cmd, err)
		return 1
	}
	return 0
}
