package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPutStoresImage(t *testing.T) {
	dir := t.TempDir()
	blobs, err := NewLocal(dir, "/uploads/", 0)
	require.NoError(t, err)

	data := pngBytes(t)
	ref, err := blobs.Put(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/uploads/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestPutRejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	blobs, err := NewLocal(dir, "/uploads", 0)
	require.NoError(t, err)

	_, err = blobs.Put(context.Background(), strings.NewReader("#!/bin/sh\necho hi\n"))
	assert.True(t, apperr.Is(err, apperr.InvalidArgument), "got %v", err)

	_, err = blobs.Put(context.Background(), strings.NewReader(""))
	assert.True(t, apperr.Is(err, apperr.InvalidArgument), "got %v", err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPutEnforcesSizeCap(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t)
	blobs, err := NewLocal(dir, "/uploads", int64(len(data)-1))
	require.NoError(t, err)

	_, err = blobs.Put(context.Background(), bytes.NewReader(data))
	assert.True(t, apperr.Is(err, apperr.InvalidArgument), "got %v", err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial blob must be removed")
}

func TestNewLocalNeedsDir(t *testing.T) {
	_, err := NewLocal("", "/uploads", 0)
	assert.Error(t, err)
}
