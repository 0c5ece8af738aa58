package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, environ []string, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, environ, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func lines(s string) []string {
	return strings.Fields(strings.TrimSpace(s))
}

func TestRandCount(t *testing.T) {
	res := runCLI(t, nil, "", "rand", "-n", "3")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	got := lines(res.stdout)
	if len(got) != 3 {
		t.Fatalf("got %d values, want 3", len(got))
	}
	for _, s := range got {
		if _, err := strconv.ParseUint(s, 10, 64); err != nil {
			t.Fatalf("ParseUint(%q) error: %v", s, err)
		}
	}
}

func TestSpanAndUint(t *testing.T) {
	res := runCLI(t, nil, "", "span", "-n", "50", "--", "-3", "4")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	for _, s := range lines(res.stdout) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < -3 || v >= 4 {
			t.Fatalf("span value %q out of range", s)
		}
	}
	res = runCLI(t, nil, "", "uint", "0")
	if res.code != 1 || !strings.Contains(res.stderr, "invalid modulus") {
		t.Fatalf("uint 0: exit %d, stderr %q", res.code, res.stderr)
	}
	res = runCLI(t, nil, "", "span", "5", "5")
	if res.code != 1 || !strings.Contains(res.stderr, "invalid range") {
		t.Fatalf("span 5 5: exit %d, stderr %q", res.code, res.stderr)
	}
}

func TestRealAndDrop(t *testing.T) {
	res := runCLI(t, nil, "", "real", "-n", "5")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	for _, s := range lines(res.stdout) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 || f > 1 {
			t.Fatalf("real value %q out of range", s)
		}
	}
	if res := runCLI(t, nil, "", "drop", "10"); res.code != 0 || len(lines(res.stdout)) != 1 {
		t.Fatalf("drop: exit %d, stdout %q, stderr %q", res.code, res.stdout, res.stderr)
	}
}

func TestFillHex(t *testing.T) {
	res := runCLI(t, nil, "", "fill", "100", "--hex")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if len(res.stdout) != 201 || !strings.HasSuffix(res.stdout, "\n") {
		t.Fatalf("unexpected hex output length %d", len(res.stdout))
	}
	raw := runCLI(t, []string{"HDRBG_CHUNK_SIZE=7"}, "", "fill", "70000")
	if raw.code != 0 || len(raw.stdout) != 70000 {
		t.Fatalf("raw fill: exit %d, %d bytes, stderr %q", raw.code, len(raw.stdout), raw.stderr)
	}
}

func TestPassphraseIsDeterministic(t *testing.T) {
	environ := []string{"HDRBG_ENTROPY=passphrase", "HDRBG_SALT=00ff10", "HDRBG_PBKDF2_ITERATIONS=1000"}
	a := runCLI(t, environ, "hunter2\n", "fill", "48", "--hex")
	b := runCLI(t, environ, "hunter2\n", "fill", "48", "--hex")
	c := runCLI(t, environ, "hunter3\n", "fill", "48", "--hex")
	if a.code != 0 || b.code != 0 || c.code != 0 {
		t.Fatalf("exit codes %d %d %d: %s", a.code, b.code, c.code, a.stderr)
	}
	if a.stdout != b.stdout {
		t.Fatalf("same passphrase and salt produced different output")
	}
	if a.stdout == c.stdout {
		t.Fatalf("different passphrases produced the same output")
	}
	if !strings.Contains(a.stderr, "Passphrase: ") {
		t.Fatalf("missing prompt on stderr: %q", a.stderr)
	}
	flagged := runCLI(t, []string{"HDRBG_PBKDF2_ITERATIONS=1000"}, "hunter2\n",
		"--entropy", "passphrase", "--salt", "00ff10", "fill", "48", "--hex")
	if flagged.stdout != a.stdout {
		t.Fatalf("flags and environment configured different streams")
	}
}

func TestConfigErrors(t *testing.T) {
	cases := map[string][]string{
		"bad int":      {"HDRBG_CHUNK_SIZE=abc"},
		"chunk range":  {"HDRBG_CHUNK_SIZE=70000"},
		"missing salt": {"HDRBG_ENTROPY=passphrase"},
		"unknown mode": {"HDRBG_ENTROPY=lava-lamp"},
		"iterations":   {"HDRBG_PBKDF2_ITERATIONS=0"},
	}
	for name, environ := range cases {
		if res := runCLI(t, environ, "", "rand"); res.code == 0 {
			t.Fatalf("%s: expected failure", name)
		}
	}
	if res := runCLI(t, nil, "", "nonsense"); res.code != 2 {
		t.Fatalf("unknown command: exit %d, want 2", res.code)
	}
}

func TestPerm(t *testing.T) {
	res := runCLI(t, nil, "", "perm", "20")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	var got []int
	for _, s := range lines(res.stdout) {
		v, err := strconv.Atoi(s)
		if err != nil {
			t.Fatalf("Atoi(%q) error: %v", s, err)
		}
		got = append(got, v)
	}
	slices.Sort(got)
	for i, v := range got {
		if v != i {
			t.Fatalf("not a permutation of [0, 20): %v", got)
		}
	}
}

func TestKeySealOpen(t *testing.T) {
	res := runCLI(t, nil, "", "key", "--cipher", "xchacha20-poly1305")
	if res.code != 0 {
		t.Fatalf("key: exit %d: %s", res.code, res.stderr)
	}
	encoded := strings.TrimSpace(res.stdout)
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) != 32 {
		t.Fatalf("key %q: %v", encoded, err)
	}
	sealed := runCLI(t, nil, "attack at dawn", "seal", encoded)
	if sealed.code != 0 {
		t.Fatalf("seal: exit %d: %s", sealed.code, sealed.stderr)
	}
	opened := runCLI(t, nil, sealed.stdout, "open", encoded)
	if opened.code != 0 || opened.stdout != "attack at dawn" {
		t.Fatalf("open: exit %d, stdout %q, stderr %q", opened.code, opened.stdout, opened.stderr)
	}
	if res := runCLI(t, nil, "", "key", "--cipher", "aes-gcm", "--length", "7"); res.code != 1 {
		t.Fatalf("7-byte aes key: exit %d, want 1", res.code)
	}
}

func TestSealUsesFreshNonces(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	environ := []string{"HDRBG_ENTROPY=passphrase", "HDRBG_SALT=00112233", "HDRBG_PBKDF2_ITERATIONS=1000"}
	const nonceSize = 12
	var nonces [][]byte
	for _, msg := range []string{"first message", "other message", "first message"} {
		sealed := runCLI(t, environ, msg, "seal", "--cipher", "aes-gcm", key)
		if sealed.code != 0 {
			t.Fatalf("seal: exit %d: %s", sealed.code, sealed.stderr)
		}
		if strings.Contains(sealed.stderr, "Passphrase") {
			t.Fatalf("seal prompted for a passphrase: %q", sealed.stderr)
		}
		if len(sealed.stdout) <= nonceSize {
			t.Fatalf("sealed output too short: %d bytes", len(sealed.stdout))
		}
		for _, prev := range nonces {
			if bytes.Equal(prev, []byte(sealed.stdout[:nonceSize])) {
				t.Fatalf("two seals under the same key used nonce %x", prev)
			}
		}
		nonces = append(nonces, []byte(sealed.stdout[:nonceSize]))
		opened := runCLI(t, environ, sealed.stdout, "open", "--cipher", "aes-gcm", key)
		if opened.code != 0 || opened.stdout != msg {
			t.Fatalf("open: exit %d, stdout %q, stderr %q", opened.code, opened.stdout, opened.stderr)
		}
	}
}

func TestEmptyPassphraseFails(t *testing.T) {
	environ := []string{"HDRBG_ENTROPY=passphrase", "HDRBG_SALT=00ff10", "HDRBG_PBKDF2_ITERATIONS=1000"}
	if res := runCLI(t, environ, "\n", "fill", "16"); res.code != 1 || res.stdout != "" {
		t.Fatalf("empty passphrase: exit %d, stdout %q", res.code, res.stdout)
	}
}

func TestVectorsThenVerify(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"vectors", "--plain", "3", "--pr", "2"},
		{"vectors", "--plain", "2", "--pr", "2", "--format", "binary", "--compress", "lz4"},
		{"vectors", "--plain", "1", "--pr", "1", "--compress", "gzip"},
	} {
		res := runCLI(t, nil, "", args...)
		if res.code != 0 {
			t.Fatalf("%v: exit %d: %s", args, res.code, res.stderr)
		}
		path := filepath.Join(dir, "fixture")
		if err := os.WriteFile(path, []byte(res.stdout), 0o600); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}
		res = runCLI(t, nil, "", "verify", path)
		if res.code != 0 || !strings.Contains(res.stdout, "passed") {
			t.Fatalf("verify %v: exit %d, stdout %q, stderr %q", args, res.code, res.stdout, res.stderr)
		}
	}
}
