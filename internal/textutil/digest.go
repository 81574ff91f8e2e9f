package textutil

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Digest returns the hex BLAKE3 sum of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestText hashes text after normalising line endings.
func DigestText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Digest([]byte(text))
}

// DigestReader hashes everything read from r.
func DigestReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile hashes the file at path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return DigestReader(f)
}

// ShortDigest trims a digest for display.
func ShortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
