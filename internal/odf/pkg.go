package odf

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"ywbridge/internal/faults"
	"ywbridge/internal/fileutil"
)

const (
	mimeText  = "application/vnd.oasis.opendocument.text"
	mimeSheet = "application/vnd.oasis.opendocument.spreadsheet"
)

type part struct {
	name string
	data []byte
}

// writePackage writes an ODF zip. The mimetype entry comes first and is
// stored uncompressed.
func writePackage(path, mimetype string, parts []part) error {
	return fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
		if err != nil {
			return err
		}
		if _, err := io.WriteString(mw, mimetype); err != nil {
			return err
		}
		all := append(parts[:len(parts):len(parts)], part{name: "META-INF/manifest.xml", data: manifest(mimetype, parts)})
		for _, p := range all {
			fw, err := zw.Create(p.name)
			if err != nil {
				return err
			}
			if _, err := fw.Write(p.data); err != nil {
				return fmt.Errorf("write %s: %w", p.name, err)
			}
		}
		return zw.Close()
	})
}

func manifest(mimetype string, parts []part) []byte {
	n := element("manifest:manifest")
	n.SetAttr("xmlns:manifest", namespaces["manifest"])
	n.SetAttr("manifest:version", "1.2")
	add(n, "manifest:file-entry", "manifest:full-path", "/", "manifest:version", "1.2", "manifest:media-type", mimetype)
	for _, p := range parts {
		add(n, "manifest:file-entry", "manifest:full-path", p.name, "manifest:media-type", "text/xml")
	}
	return render(n)
}

// readPackage returns the named entries of an ODF zip. Missing optional
// entries are simply absent from the result.
func readPackage(path, mimetype string, names ...string) (map[string][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, faults.Wrap(faults.ErrInvalidDocument, "read", path, "not an OpenDocument package", err)
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	out := make(map[string][]byte)
	for _, f := range zr.File {
		if f.Name != "mimetype" && !want[f.Name] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		out[f.Name] = content
	}
	if got, ok := out["mimetype"]; ok && string(bytes.TrimSpace(got)) != mimetype {
		return nil, faults.Wrap(faults.ErrInvalidDocument, "read", path, fmt.Sprintf("unexpected media type %q", got), nil)
	}
	if _, ok := out["content.xml"]; !ok {
		return nil, faults.Wrap(faults.ErrInvalidDocument, "read", path, "content.xml missing", nil)
	}
	return out, nil
}
