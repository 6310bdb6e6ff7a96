package ref

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Hasher computes the content hash stored in a ref header.
type Hasher interface {
	// Name identifies the algorithm in the ref.hasher header field.
	Name() string

	// Hash digests the reader's content to a hex string.
	Hash(r io.Reader) (string, error)
}

// HasherByName resolves a configured hasher name.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "sha256":
		return sha256Hasher{}, nil
	case "blake3":
		return blake3Hasher{}, nil
	}
	return nil, fmt.Errorf("unknown ref hasher %q", name)
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return "sha256" }

func (sha256Hasher) Hash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type blake3Hasher struct{}

func (blake3Hasher) Name() string { return "blake3" }

func (blake3Hasher) Hash(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashFile digests the file at path with h.
func hashFile(h Hasher, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.Hash(f)
}
