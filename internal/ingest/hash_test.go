package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/inbody-tracker/internal/ingest"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHashFileKnownDigest(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.jpg", "hello world")

	sum, err := ingest.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sum)
}

func TestHashFileIgnoresFilename(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "before_rename.jpg", "same bytes")
	b := writeFile(t, dir, "after_rename.png", "same bytes")
	c := writeFile(t, dir, "different.jpg", "other bytes")

	sumA, err := ingest.HashFile(a)
	require.NoError(t, err)
	sumB, err := ingest.HashFile(b)
	require.NoError(t, err)
	sumC, err := ingest.HashFile(c)
	require.NoError(t, err)

	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, sumA, sumC)
	assert.Len(t, sumA, 64)
}

func TestHashFileMissing(t *testing.T) {
	_, err := ingest.HashFile(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}
