package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// FromPath builds a candidate from a local file. The declared type follows
// the file name extension; files without a known extension are sniffed.
func FromPath(path string) (Candidate, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Candidate{}, errors.New("file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("reading file info: %w", err)
	}
	if info.IsDir() {
		return Candidate{}, fmt.Errorf("%s is a directory", path)
	}

	declared := typeFromName(path)
	if declared == "" {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return Candidate{}, fmt.Errorf("detecting file type: %w", err)
		}
		declared = mt.String()
	}

	return Candidate{
		Name:         filepath.Base(path),
		ByteSize:     info.Size(),
		DeclaredType: declared,
		Path:         path,
	}, nil
}

// FromFileHeader builds a candidate from an uploaded multipart part. The part
// Content-Type wins; a missing or generic one falls back to the extension.
func FromFileHeader(fh *multipart.FileHeader) Candidate {
	declared := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if declared == "" || strings.HasPrefix(strings.ToLower(declared), octetStream) {
		if byName := typeFromName(fh.Filename); byName != "" {
			declared = byName
		}
	}

	return Candidate{
		Name:         fh.Filename,
		ByteSize:     fh.Size,
		DeclaredType: declared,
	}
}

// Candidates builds candidates for every path, keeping the order. A path that
// cannot be read stops the walk only when it is the first one, since the rest
// are never considered.
func Candidates(paths []string) ([]Candidate, error) {
	out := make([]Candidate, 0, len(paths))
	for i, p := range paths {
		c, err := FromPath(p)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func typeFromName(name string) string {
	t, ok := TypeForExtension(filepath.Ext(name))
	if !ok {
		return ""
	}
	return t.MIMEType()
}
