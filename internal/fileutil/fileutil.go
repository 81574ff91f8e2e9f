package fileutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"ywbridge/internal/textutil"
)

// WriteFileAtomic writes a file through a temporary sibling and renames it
// into place. The temporary file is removed on every failure path.
func WriteFileAtomic(path string, mode os.FileMode, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// BackupSuffix is appended to the source name, after a timestamp, for
// compressed backups.
const BackupSuffix = ".bak.xz"

// BackupCompressed streams src into an xz archive next to it and verifies the
// archive decompresses to the same content. The archive is removed on
// mismatch. It returns the archive path.
func BackupCompressed(src string, now time.Time) (string, error) {
	srcDigest, err := textutil.DigestFile(src)
	if err != nil {
		return "", fmt.Errorf("digest source: %w", err)
	}
	dst := fmt.Sprintf("%s.%s%s", src, now.UTC().Format("20060102T150405"), BackupSuffix)

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	err = WriteFileAtomic(dst, 0o644, func(w io.Writer) error {
		xw, err := xz.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create xz writer: %w", err)
		}
		if _, err := io.Copy(xw, in); err != nil {
			return fmt.Errorf("compress backup: %w", err)
		}
		return xw.Close()
	})
	if err != nil {
		return "", err
	}

	restored, err := ReadCompressed(dst)
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("verify backup: %w", err)
	}
	if textutil.Digest(restored) != srcDigest {
		_ = os.Remove(dst)
		return "", fmt.Errorf("backup hash mismatch: %s corrupted during compression", dst)
	}
	return dst, nil
}

// ReadCompressed returns the decompressed content of an xz archive.
func ReadCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, xr); err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// ListBackups returns the compressed backups of src, oldest first.
func ListBackups(src string) ([]string, error) {
	matches, err := filepath.Glob(src + ".*" + BackupSuffix)
	if err != nil {
		return nil, err
	}
	prefix := src + "."
	matches = slices.DeleteFunc(matches, func(m string) bool {
		stamp := strings.TrimSuffix(strings.TrimPrefix(m, prefix), BackupSuffix)
		_, err := time.Parse("20060102T150405", stamp)
		return err != nil
	})
	slices.Sort(matches)
	return matches, nil
}

// PruneBackups keeps the newest keep backups of src and deletes the rest.
// keep <= 0 keeps everything.
func PruneBackups(src string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	backups, err := ListBackups(src)
	if err != nil || len(backups) <= keep {
		return nil, err
	}
	stale := backups[:len(backups)-keep]
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove backup %s: %w", path, err)
		}
	}
	return stale, nil
}
