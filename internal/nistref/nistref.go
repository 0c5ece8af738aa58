// Package nistref is a literal transcription of SP 800-90A Hash_DRBG with
// SHA-256, written over math/big and crypto/sha256. It shares no code with
// the production generator and exists so tests can compare the two.
package nistref

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
)

// SeedLen is seedlen for SHA-256 in bytes.
const SeedLen = 55

var modulus = new(big.Int).Lsh(big.NewInt(1), SeedLen*8)

// HashDRBG holds the working state.
type HashDRBG struct {
	V             *big.Int
	C             *big.Int
	ReseedCounter uint64
}

// Instantiate runs Hash_DRBG_Instantiate_algorithm.
func Instantiate(entropyInput, nonce, personalization []byte) *HashDRBG {
	seedMaterial := concat(entropyInput, nonce, personalization)
	d := &HashDRBG{}
	d.setSeed(HashDF(seedMaterial, SeedLen))
	return d
}

// Reseed runs Hash_DRBG_Reseed_algorithm.
func (d *HashDRBG) Reseed(entropyInput, additional []byte) {
	seedMaterial := concat([]byte{0x01}, d.bytes(d.V), entropyInput, additional)
	d.setSeed(HashDF(seedMaterial, SeedLen))
}

func (d *HashDRBG) setSeed(seed []byte) {
	d.V = new(big.Int).SetBytes(seed)
	d.C = new(big.Int).SetBytes(HashDF(concat([]byte{0x00}, seed), SeedLen))
	d.ReseedCounter = 1
}

// Generate runs Hash_DRBG_Generate_algorithm without additional input and
// returns n bytes.
func (d *HashDRBG) Generate(n int) []byte {
	out := hashgen(n, d.V)
	h := sha256.Sum256(concat([]byte{0x03}, d.bytes(d.V)))
	v := new(big.Int).Add(d.V, new(big.Int).SetBytes(h[:]))
	v.Add(v, d.C)
	v.Add(v, new(big.Int).SetUint64(d.ReseedCounter))
	d.V = v.Mod(v, modulus)
	d.ReseedCounter++
	return out
}

func hashgen(n int, v *big.Int) []byte {
	data := new(big.Int).Set(v)
	one := big.NewInt(1)
	var w []byte
	for len(w) < n {
		buf := make([]byte, SeedLen)
		data.FillBytes(buf)
		sum := sha256.Sum256(buf)
		w = append(w, sum[:]...)
		data.Add(data, one).Mod(data, modulus)
	}
	return w[:n]
}

// HashDF is Hash_df from section 10.3.1.
func HashDF(input []byte, n int) []byte {
	var temp []byte
	bits := make([]byte, 4)
	binary.BigEndian.PutUint32(bits, uint32(n*8))
	for counter := 1; len(temp) < n; counter++ {
		sum := sha256.Sum256(concat([]byte{byte(counter)}, bits, input))
		temp = append(temp, sum[:]...)
	}
	return temp[:n]
}

func (d *HashDRBG) bytes(x *big.Int) []byte {
	return x.FillBytes(make([]byte, SeedLen))
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
