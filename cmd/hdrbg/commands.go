package main

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"pkt.systems/hdrbg"
	"pkt.systems/hdrbg/cavp"
	"pkt.systems/hdrbg/cipher"
	"pkt.systems/hdrbg/compression"
	"pkt.systems/hdrbg/internal/pkg/crand"
	"pkt.systems/hdrbg/stream"
)

func (a *app) register(k *kingpin.Application) map[string]func() error {
	handlers := map[string]func() error{}

	fill := k.Command("fill", "Write random bytes to stdout.")
	fillN := fill.Arg("bytes", "Number of bytes.").Required().Int64()
	fillHex := fill.Flag("hex", "Hex encode the output.").Bool()
	handlers[fill.FullCommand()] = func() error { return a.fill(*fillN, *fillHex) }

	rnd := k.Command("rand", "Print uniform 64-bit integers.")
	rndCount := rnd.Flag("count", "How many values.").Short('n').Default("1").Int()
	handlers[rnd.FullCommand()] = func() error {
		return a.repeat(*rndCount, func(d *hdrbg.DRBG) (string, error) {
			v, err := d.Uint64()
			return fmt.Sprint(v), err
		})
	}

	uintCmd := k.Command("uint", "Print integers in [0, modulus).")
	uintM := uintCmd.Arg("modulus", "Exclusive upper bound.").Required().Uint64()
	uintCount := uintCmd.Flag("count", "How many values.").Short('n').Default("1").Int()
	handlers[uintCmd.FullCommand()] = func() error {
		return a.repeat(*uintCount, func(d *hdrbg.DRBG) (string, error) {
			v, err := d.Uint64n(*uintM)
			return fmt.Sprint(v), err
		})
	}

	span := k.Command("span", "Print integers in [left, right).")
	spanL := span.Arg("left", "Inclusive lower bound.").Required().Int64()
	spanR := span.Arg("right", "Exclusive upper bound.").Required().Int64()
	spanCount := span.Flag("count", "How many values.").Short('n').Default("1").Int()
	handlers[span.FullCommand()] = func() error {
		return a.repeat(*spanCount, func(d *hdrbg.DRBG) (string, error) {
			v, err := d.Span(*spanL, *spanR)
			return fmt.Sprint(v), err
		})
	}

	realCmd := k.Command("real", "Print fractions in [0, 1].")
	realCount := realCmd.Flag("count", "How many values.").Short('n').Default("1").Int()
	handlers[realCmd.FullCommand()] = func() error {
		return a.repeat(*realCount, func(d *hdrbg.DRBG) (string, error) {
			v, err := d.Float64()
			return fmt.Sprint(v), err
		})
	}

	drop := k.Command("drop", "Advance the state, then print the next 64-bit integer.")
	dropN := drop.Arg("count", "Generate operations to skip.").Required().Uint64()
	handlers[drop.FullCommand()] = func() error { return a.drop(*dropN) }

	perm := k.Command("perm", "Print a random permutation of [0, n).")
	permN := perm.Arg("n", "Permutation size.").Required().Int()
	handlers[perm.FullCommand()] = func() error { return a.perm(*permN) }

	key := k.Command("key", "Print a base64 encoded key for an AEAD cipher.")
	keyCipher := key.Flag("cipher", "Cipher the key is for.").Default("aes-gcm").Enum(cipher.Names()...)
	keyLen := key.Flag("length", "Key length in bytes.").Default("32").Int()
	handlers[key.FullCommand()] = func() error { return a.key(*keyCipher, *keyLen) }

	seal := k.Command("seal", "Encrypt stdin with a base64 key under a fresh OS-seeded nonce.")
	sealCipher := seal.Flag("cipher", "AEAD cipher.").Default("xchacha20-poly1305").Enum(cipher.Names()...)
	sealKey := seal.Arg("key", "Base64 key.").Required().String()
	handlers[seal.FullCommand()] = func() error { return a.seal(*sealCipher, *sealKey, false) }

	open := k.Command("open", "Decrypt stdin sealed by the seal command.")
	openCipher := open.Flag("cipher", "AEAD cipher.").Default("xchacha20-poly1305").Enum(cipher.Names()...)
	openKey := open.Arg("key", "Base64 key.").Required().String()
	handlers[open.FullCommand()] = func() error { return a.seal(*openCipher, *openKey, true) }

	verify := k.Command("verify", "Replay a known-answer fixture file.")
	verifyPath := verify.Arg("fixture", "Fixture path (text or binary, optionally compressed).").Required().String()
	handlers[verify.FullCommand()] = func() error { return a.verify(*verifyPath) }

	vectors := k.Command("vectors", "Write a regression fixture recorded from this generator.")
	vecPlain := vectors.Flag("plain", "Vectors without prediction resistance.").Default("15").Int()
	vecPR := vectors.Flag("pr", "Vectors with prediction resistance.").Default("15").Int()
	vecFormat := vectors.Flag("format", "Fixture format.").Default("text").Enum("text", "binary")
	vecCodec := vectors.Flag("compress", "Compression codec.").Default("none").Enum(compression.Names()...)
	handlers[vectors.FullCommand()] = func() error { return a.vectors(*vecPlain, *vecPR, *vecFormat, *vecCodec) }

	return handlers
}

func (a *app) streamOptions() []stream.Option {
	return []stream.Option{
		stream.WithChunkSize(a.cfg.ChunkSize),
		stream.WithPredictionResistance(a.cfg.PredictionResistance),
	}
}

func (a *app) fill(n int64, asHex bool) error {
	rng, err := a.instantiate()
	if err != nil {
		return err
	}
	defer rng.Zero()
	w := bufio.NewWriter(a.stdout)
	var dst io.Writer = w
	if asHex {
		dst = hex.NewEncoder(w)
	}
	if _, err := stream.Copy(dst, rng, n, a.streamOptions()...); err != nil {
		return err
	}
	if asHex {
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func (a *app) repeat(count int, next func(*hdrbg.DRBG) (string, error)) error {
	rng, err := a.instantiate()
	if err != nil {
		return err
	}
	defer rng.Zero()
	w := bufio.NewWriter(a.stdout)
	for range count {
		if a.cfg.PredictionResistance {
			if err := rng.Reseed(); err != nil {
				return err
			}
		}
		s, err := next(rng)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	}
	return w.Flush()
}

func (a *app) drop(n uint64) error {
	rng, err := a.instantiate()
	if err != nil {
		return err
	}
	defer rng.Zero()
	if err := rng.Drop(n); err != nil {
		return err
	}
	v, err := rng.Uint64()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, v)
	return err
}

func (a *app) perm(n int) error {
	if n < 0 {
		return fmt.Errorf("n must be >= 0")
	}
	rng, err := a.instantiate()
	if err != nil {
		return err
	}
	defer rng.Zero()
	p := crand.New(rng).Perm(n)
	fields := make([]string, len(p))
	for i, v := range p {
		fields[i] = fmt.Sprint(v)
	}
	_, err = fmt.Fprintln(a.stdout, strings.Join(fields, " "))
	return err
}

func (a *app) key(name string, n int) error {
	factory, err := cipher.ByName(name)
	if err != nil {
		return err
	}
	rng, err := a.instantiate()
	if err != nil {
		return err
	}
	defer rng.Zero()
	key, err := cipher.GenerateKey(stream.NewReader(rng, a.streamOptions()...), n)
	if err != nil {
		return err
	}
	defer clear(key)
	if _, err := factory(key); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = fmt.Fprintln(a.stdout, base64.StdEncoding.EncodeToString(key))
	return err
}

func (a *app) seal(name, encodedKey string, open bool) error {
	factory, err := cipher.ByName(name)
	if err != nil {
		return err
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	defer clear(key)
	input, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var nonces io.Reader
	if !open {
		// Nonces must never repeat under one key, so they come from a
		// generator seeded by the OS even when HDRBG_ENTROPY=passphrase.
		rng, err := hdrbg.New()
		if err != nil {
			return err
		}
		defer rng.Zero()
		nonces = stream.NewReader(rng, a.streamOptions()...)
	}
	s, err := cipher.NewSealer(factory, key, nonces)
	if err != nil {
		return err
	}
	var out []byte
	if open {
		out, err = s.Open(input, nil)
	} else {
		out, err = s.Seal(input, nil)
	}
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(out)
	return err
}

func (a *app) verify(path string) error {
	suite, err := cavp.LoadFile(path)
	if err != nil {
		return err
	}
	if err := suite.Verify(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%d vectors without and %d with prediction resistance passed\n",
		len(suite.Plain), len(suite.PredictionResistant))
	return err
}

func (a *app) vectors(plain, pr int, format, codecName string) error {
	codec, err := compression.ByName(codecName)
	if err != nil {
		return err
	}
	rng, err := a.instantiate()
	if err != nil {
		return err
	}
	defer rng.Zero()
	r := stream.NewReader(rng, a.streamOptions()...)
	draw := func(n int) ([]byte, error) {
		b := make([]byte, n)
		_, err := io.ReadFull(r, b)
		return b, err
	}
	suite := &cavp.Suite{}
	for i := range plain + pr {
		withPR := i >= plain
		material, err := draw(cavp.SeederLength + 2*cavp.ReseedLength)
		if err != nil {
			return err
		}
		v := cavp.Vector{
			Entropy: material[:cavp.EntropyLength],
			Nonce:   material[cavp.EntropyLength:cavp.SeederLength],
			Reseed:  material[cavp.SeederLength : cavp.SeederLength+cavp.ReseedLength],
		}
		if withPR {
			v.ReseedPR = material[cavp.SeederLength+cavp.ReseedLength:]
		}
		if err := v.Record(withPR, cavp.ExpectedLength); err != nil {
			return err
		}
		if withPR {
			suite.PredictionResistant = append(suite.PredictionResistant, v)
		} else {
			suite.Plain = append(suite.Plain, v)
		}
	}
	return cavp.Encode(a.stdout, suite, format, codec)
}
