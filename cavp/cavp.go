// Package cavp loads and replays Hash-DRBG known-answer fixtures in the
// layout of the NIST CAVP Hash_DRBG SHA-256 vectors: instantiate from entropy
// and nonce, reseed, generate, then generate again (reseeding first when the
// vector belongs to the prediction resistance section) and compare the
// second output.
package cavp

import (
	"bytes"
	"errors"
	"fmt"

	"pkt.systems/hdrbg"
	"pkt.systems/hdrbg/entropy"
)

// Fixed sizes of the hex-text layout.
const (
	EntropyLength  = hdrbg.SecurityStrength
	NonceLength    = 16
	SeederLength   = EntropyLength + NonceLength
	ReseedLength   = hdrbg.SecurityStrength
	ExpectedLength = 128
)

// ErrMalformed indicates a fixture that cannot be parsed.
var ErrMalformed = errors.New("hdrbg/cavp: malformed fixture")

// Vector is one test case.
type Vector struct {
	Entropy []byte
	Nonce   []byte
	// Reseed is the entropy for the explicit reseed after instantiation.
	Reseed []byte
	// ReseedPR is the entropy consumed by the prediction resistant generate.
	// It is empty for vectors without prediction resistance.
	ReseedPR []byte
	Expected []byte
}

// Suite groups the two fixture sections.
type Suite struct {
	Plain               []Vector
	PredictionResistant []Vector
}

// Len reports the total number of vectors.
func (s *Suite) Len() int {
	return len(s.Plain) + len(s.PredictionResistant)
}

// MismatchError describes a vector whose replay differed from its expected
// output.
type MismatchError struct {
	PredictionResistance bool
	Index                int
	Expected             []byte
	Got                  []byte
}

func (e *MismatchError) Error() string {
	section := "without prediction resistance"
	if e.PredictionResistance {
		section = "with prediction resistance"
	}
	return fmt.Sprintf("cavp: vector %d %s: expected %x, got %x", e.Index, section, e.Expected, e.Got)
}

// Replay runs the vector and returns the second generated block.
func (v *Vector) Replay(predictionResistance bool) ([]byte, error) {
	if len(v.Expected) == 0 || len(v.Expected) > hdrbg.MaxRequestLength {
		return nil, fmt.Errorf("%w: expected output of %d bytes", ErrMalformed, len(v.Expected))
	}
	if len(v.Entropy) != EntropyLength || len(v.Reseed) != ReseedLength {
		return nil, fmt.Errorf("%w: entropy %d and reseed %d bytes, want %d", ErrMalformed, len(v.Entropy), len(v.Reseed), EntropyLength)
	}
	if predictionResistance && len(v.ReseedPR) != ReseedLength {
		return nil, fmt.Errorf("%w: prediction resistance reseed of %d bytes, want %d", ErrMalformed, len(v.ReseedPR), ReseedLength)
	}
	src := entropy.NewReplay(v.Entropy, v.Reseed)
	if predictionResistance {
		src.Append(v.ReseedPR)
	}
	rng, err := hdrbg.New(hdrbg.WithEntropySource(src), hdrbg.WithNonce(v.Nonce))
	if err != nil {
		return nil, fmt.Errorf("replay instantiate: %w", err)
	}
	defer rng.Zero()
	if err := rng.Reseed(); err != nil {
		return nil, fmt.Errorf("replay reseed: %w", err)
	}
	out := make([]byte, len(v.Expected))
	if _, err := rng.Generate(out, false); err != nil {
		return nil, fmt.Errorf("replay generate: %w", err)
	}
	if _, err := rng.Generate(out, predictionResistance); err != nil {
		return nil, fmt.Errorf("replay generate: %w", err)
	}
	return out, nil
}

// Record replaces v.Expected with n bytes produced by replaying v. It is
// used to build regression fixtures from this implementation. On error v is
// left unchanged.
func (v *Vector) Record(predictionResistance bool, n int) error {
	trial := *v
	trial.Expected = make([]byte, n)
	out, err := trial.Replay(predictionResistance)
	if err != nil {
		return err
	}
	v.Expected = out
	return nil
}

// Verify replays every vector and returns the first *MismatchError, or any
// error raised while replaying.
func (s *Suite) Verify() error {
	check := func(vectors []Vector, pr bool) error {
		for i := range vectors {
			got, err := vectors[i].Replay(pr)
			if err != nil {
				return fmt.Errorf("vector %d: %w", i, err)
			}
			if !bytes.Equal(got, vectors[i].Expected) {
				return &MismatchError{PredictionResistance: pr, Index: i, Expected: vectors[i].Expected, Got: got}
			}
		}
		return nil
	}
	if err := check(s.Plain, false); err != nil {
		return err
	}
	return check(s.PredictionResistant, true)
}
