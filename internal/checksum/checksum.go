// Package checksum computes digests of fetched byte streams.
package checksum

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Supported algorithm names.
const (
	SHA256     = "sha256"
	SHA3_256   = "sha3-256"
	BLAKE2b256 = "blake2b-256"
)

var algorithms = map[string]func() hash.Hash{
	SHA256:   sha256.New,
	SHA3_256: sha3.New256,
	BLAKE2b256: func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Algorithms returns the supported algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a fresh hash for alg.
func New(alg string) (hash.Hash, error) {
	mk, ok := algorithms[strings.ToLower(alg)]
	if !ok {
		return nil, fmt.Errorf("unsupported checksum algorithm %q (supported: %s)", alg, strings.Join(Algorithms(), ", "))
	}
	return mk(), nil
}

// Writer passes writes through to an underlying writer and hashes exactly
// the bytes that writer accepted.
type Writer struct {
	w   io.Writer
	h   hash.Hash
	alg string
}

// NewWriter wraps w with a digest of algorithm alg.
func NewWriter(w io.Writer, alg string) (*Writer, error) {
	h, err := New(alg)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, h: h, alg: strings.ToLower(alg)}, nil
}

func (cw *Writer) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		cw.h.Write(p[:n])
	}
	return n, err
}

// Algorithm returns the name of the digest algorithm.
func (cw *Writer) Algorithm() string { return cw.alg }

// Sum returns the hex digest of everything written so far.
func (cw *Writer) Sum() string {
	return hex.EncodeToString(cw.h.Sum(nil))
}

// ComputeFile computes the alg digest of a file.
func ComputeFile(path, alg string) (string, error) {
	h, err := New(alg)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(h, bufio.NewReader(f)); err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeData computes the alg digest of data.
func ComputeData(data []byte, alg string) (string, error) {
	h, err := New(alg)
	if err != nil {
		return "", err
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify compares a computed digest with the expected one, ignoring case.
func Verify(actual, expected string) error {
	expected = strings.TrimSpace(expected)
	if !isHexString(expected) {
		return fmt.Errorf("expected checksum %q is not hex", expected)
	}
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

// isHexString returns true if s is a valid hex string.
func isHexString(s string) bool {
	if s == "" {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
