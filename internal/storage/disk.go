// Package storage implements the file store: uploaded bytes land on local
// disk and only the descriptor travels through the rest of the system.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize caps uploads at 10 MB.
const MaxFileSize = 10 << 20

var (
	ErrTooLarge    = errors.New("file too large")
	ErrBadFileType = errors.New("unsupported file type")
)

// allowed is the upload allow-list: images and PDFs only.
var allowed = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Descriptor is what callers persist in place of the bytes.
type Descriptor struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"type"`
	Size     int64  `json:"size"`
}

type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{root: root, baseURL: baseURL}
}

// Save sniffs the content type (the browser-reported one is not trusted),
// enforces the allow-list and size cap, and writes the bytes under a unique
// per-client path.
func (d *DiskStore) Save(clientID, filename string, r io.Reader) (*Descriptor, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	ext, ok := allowed[mt.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBadFileType, mt.String())
	}

	name := fmt.Sprintf("%d-%06x%s", time.Now().UnixMilli(), rand.Intn(1<<24), ext)
	dir := filepath.Join(d.root, clientID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, err
	}

	return &Descriptor{
		URL:      d.baseURL + "/" + clientID + "/" + name,
		Filename: filename,
		MimeType: mt.String(),
		Size:     int64(len(data)),
	}, nil
}
