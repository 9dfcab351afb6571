// Package storage keeps uploaded post images and hands back their public refs.
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
)

// DefaultMaxBytes caps a single upload when no limit is configured.
const DefaultMaxBytes int64 = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Blobs stores an object and returns the ref clients use to fetch it.
type Blobs interface {
	Put(ctx context.Context, r io.Reader) (string, error)
}

// Local writes blobs under a directory that the HTTP server exposes at
// PublicURL.
type Local struct {
	dir       string
	publicURL string
	maxBytes  int64
}

var _ Blobs = (*Local)(nil)

func NewLocal(dir, publicURL string, maxBytes int64) (*Local, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Local{dir: dir, publicURL: strings.TrimRight(publicURL, "/"), maxBytes: maxBytes}, nil
}

func (l *Local) Dir() string { return l.dir }

// Put sniffs the content type, rejects anything that is not a supported image
// or exceeds the size cap, and stores the bytes under a fresh uuid name.
func (l *Local) Put(ctx context.Context, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", apperr.Wrap(apperr.InvalidArgument, err, "Failed to read image")
	}
	if len(head) == 0 {
		return "", apperr.New(apperr.InvalidArgument, "Image is empty")
	}

	contentType := http.DetectContentType(head)
	ext, ok := extensions[contentType]
	if !ok {
		return "", apperr.Newf(apperr.InvalidArgument, "Unsupported image type %s", contentType)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err, "create blob")
	}

	n, err := io.Copy(f, io.LimitReader(br, l.maxBytes+1))
	closeErr := f.Close()
	switch {
	case err == nil && n > l.maxBytes:
		err = apperr.Newf(apperr.InvalidArgument, "Image exceeds %d bytes", l.maxBytes)
	case err == nil && ctx.Err() != nil:
		err = ctx.Err()
	case err == nil:
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		if apperr.KindOf(err) == apperr.InvalidArgument {
			return "", err
		}
		return "", apperr.Wrap(apperr.Internal, err, "write blob")
	}

	log.Printf("[Storage] stored %s (%s, %d bytes)", name, contentType, n)
	return l.publicURL + "/" + name, nil
}
