package configfile

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conduit-lang/aotcfg/internal/configure"
	"github.com/conduit-lang/aotcfg/internal/jsonwriter"
)

// GzipSuffix marks configuration files stored compressed
const GzipSuffix = ".gz"

// WriteOptions controls how a registry is written to disk
type WriteOptions struct {
	// Indent is the number of spaces per nesting level
	Indent int
	// Compress forces gzip output even without a .gz suffix
	Compress bool
}

// DefaultWriteOptions returns the layout used for checked-in configuration
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Indent: jsonwriter.DefaultIndent}
}

// Serialize renders the registry to bytes.
// The output is deterministic - the same set of descriptors always produces
// the same bytes, whatever order they were added in.
func Serialize(reg *configure.Registry, opts WriteOptions) ([]byte, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	var buf bytes.Buffer
	if err := reg.Serialize(&buf, jsonwriter.WithIndent(opts.Indent)); err != nil {
		return nil, fmt.Errorf("failed to serialize descriptors: %w", err)
	}
	return buf.Bytes(), nil
}

// Compress compresses data using gzip at the best compression level.
// Compression happens once per build so size wins over speed.
func Compress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close() // Ignore close error when write failed
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses gzip-compressed data.
func Decompress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() {
		_ = reader.Close() // Ignore close error - we already have the data
	}()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}

	return decompressed, nil
}

// Write serializes the registry to outputPath.
// Paths ending in .gz are compressed. The file is written to a temporary
// sibling first and renamed into place, so readers never observe a
// partially written configuration.
func Write(outputPath string, reg *configure.Registry, opts WriteOptions) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	data, err := Serialize(reg, opts)
	if err != nil {
		return err
	}

	if opts.Compress || strings.HasSuffix(outputPath, GzipSuffix) {
		data, err = Compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", outputPath, err)
		}
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", outputPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outputPath, err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("failed to move configuration into %s: %w", outputPath, err)
	}
	return nil
}
