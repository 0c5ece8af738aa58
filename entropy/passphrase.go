package entropy

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"

	"pkt.systems/hdrbg/sha256"
)

// PBKDF2Params describes how a passphrase is stretched into the secret behind
// a passphrase Source.
type PBKDF2Params struct {
	Hash       func() hash.Hash
	Iterations int
	Salt       []byte
	KeyLength  int
}

const (
	defaultPBKDF2Iterations = 600_000
	defaultPBKDF2KeyBytes   = 32
	defaultPBKDF2SaltBytes  = 32

	passphraseInfo = "hdrbg passphrase source v1"
)

var (
	// ErrInvalidPBKDF2Params indicates bad configuration values.
	ErrInvalidPBKDF2Params = errors.New("hdrbg/entropy: invalid PBKDF2 parameters")
	// ErrEmptyPassphrase is returned for a zero-length passphrase.
	ErrEmptyPassphrase = errors.New("hdrbg/entropy: empty passphrase")
)

// DefaultPBKDF2Params returns SHA-256, 600k iterations and a 32-byte key with
// the supplied salt. A deterministic stream needs a fixed salt; pass nil to
// have one generated from the OS source instead.
func DefaultPBKDF2Params(salt []byte) PBKDF2Params {
	return PBKDF2Params{
		Hash:       sha256.New,
		Iterations: defaultPBKDF2Iterations,
		Salt:       slices.Clone(salt),
		KeyLength:  defaultPBKDF2KeyBytes,
	}
}

// FromPassphrase stretches passphrase with PBKDF2 and returns an HKDF Source
// keyed by the result, along with the parameters actually used. Identical
// passphrase and parameters always yield an identical byte stream. An empty
// passphrase fails with ErrEmptyPassphrase.
func FromPassphrase(passphrase []byte, params ...PBKDF2Params) (*HKDF, PBKDF2Params, error) {
	if len(passphrase) == 0 {
		return nil, PBKDF2Params{}, ErrEmptyPassphrase
	}
	var cfg PBKDF2Params
	if len(params) > 0 {
		cfg = params[0]
	}
	if err := normalizePBKDF2Params(&cfg); err != nil {
		return nil, PBKDF2Params{}, err
	}
	key := pbkdf2.Key(passphrase, cfg.Salt, cfg.Iterations, cfg.KeyLength, cfg.Hash)
	defer clear(key)
	return NewHKDF(key, cfg.Salt, []byte(passphraseInfo)), cfg, nil
}

func normalizePBKDF2Params(cfg *PBKDF2Params) error {
	if cfg.Iterations <= 0 {
		cfg.Iterations = defaultPBKDF2Iterations
	}
	if cfg.Hash == nil {
		cfg.Hash = sha256.New
	}
	if cfg.KeyLength <= 0 {
		cfg.KeyLength = defaultPBKDF2KeyBytes
	}
	if cfg.KeyLength < 16 {
		return fmt.Errorf("%w: key length %d is below 16 bytes", ErrInvalidPBKDF2Params, cfg.KeyLength)
	}
	if len(cfg.Salt) == 0 {
		salt, err := GenerateSalt(defaultPBKDF2SaltBytes)
		if err != nil {
			return err
		}
		cfg.Salt = salt
	} else {
		cfg.Salt = slices.Clone(cfg.Salt)
	}
	return nil
}

// GenerateSalt returns n bytes from the OS entropy source.
func GenerateSalt(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("generate salt: length must be > 0")
	}
	salt := make([]byte, n)
	if _, err := Fill(OS(), salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// PromptPassphrase reads a passphrase from r without echoing when r is a TTY.
// The prompt is written to w if provided. If r is nil, os.Stdin is used.
func PromptPassphrase(r io.Reader, prompt string, w io.Writer) ([]byte, error) {
	if r == nil {
		r = os.Stdin
	}
	fd := fileDescriptor(r)
	if fd < 0 || !term.IsTerminal(fd) {
		return promptPassphraseFromReader(r, prompt, w)
	}
	if w != nil && prompt != "" {
		if _, err := io.WriteString(w, prompt); err != nil {
			return nil, fmt.Errorf("write prompt: %w", err)
		}
	}
	if state, err := term.GetState(fd); err == nil {
		restore := restoreOnSignal(fd, state)
		defer restore()
	}
	passphrase, err := term.ReadPassword(fd)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	if w != nil {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return nil, fmt.Errorf("write newline: %w", err)
		}
	}
	return passphrase, nil
}

// PromptAndDerive prompts for a passphrase and returns the Source derived
// from it by FromPassphrase. The passphrase is wiped before returning.
func PromptAndDerive(r io.Reader, prompt string, w io.Writer, params ...PBKDF2Params) (*HKDF, PBKDF2Params, error) {
	passphrase, err := PromptPassphrase(r, prompt, w)
	if err != nil {
		return nil, PBKDF2Params{}, err
	}
	defer clear(passphrase)
	return FromPassphrase(passphrase, params...)
}

// restoreOnSignal puts the terminal back into state if the process is
// interrupted while echo is disabled. The returned func restores the state
// and stops watching for signals.
func restoreOnSignal(fd int, state *term.State) func() {
	var once sync.Once
	restore := func() {
		once.Do(func() {
			_ = term.Restore(fd, state)
		})
	}
	signals := terminalSignals()
	if len(signals) == 0 {
		return restore
	}
	sigCh := make(chan os.Signal, 1)
	doneCh := make(chan struct{})
	signal.Notify(sigCh, signals...)
	go func() {
		select {
		case <-doneCh:
		case sig := <-sigCh:
			restore()
			os.Exit(exitCodeForSignal(sig))
		}
	}()
	return func() {
		close(doneCh)
		signal.Stop(sigCh)
		restore()
	}
}

func promptPassphraseFromReader(r io.Reader, prompt string, w io.Writer) ([]byte, error) {
	if w != nil && prompt != "" {
		if _, err := io.WriteString(w, prompt); err != nil {
			return nil, fmt.Errorf("write prompt: %w", err)
		}
	}
	reader := bufio.NewReader(r)
	line, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	passphrase := slices.Clone(bytes.TrimRight(line, "\r\n"))
	clear(line)
	return passphrase, nil
}

func fileDescriptor(r io.Reader) int {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := r.(fder); ok {
		return int(f.Fd())
	}
	return -1
}

func exitCodeForSignal(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	if sig == os.Interrupt {
		return 130
	}
	return 1
}
