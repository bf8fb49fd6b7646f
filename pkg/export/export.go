// Package export serializes cascade results and criticality reports for
// downstream consumers. Two forms are supported: plain indented JSON for
// humans and pipelines, and a checksummed snappy-compressed archive for
// storing large batches of reproducible runs.
package export

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/cascadelab/contagion/pkg/contagion"
)

// Archive layout: magic(4) | version(1) | length(4) | snappy payload | crc32(4).
// The checksum covers the compressed payload.
var archiveMagic = [4]byte{'C', 'T', 'G', 'N'}

const archiveVersion = byte(1)

// Archive kinds
const (
	KindCascade     = "cascade"
	KindCriticality = "criticality"
)

var (
	ErrBadMagic           = errors.New("not a contagion archive")
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	ErrChecksumMismatch   = errors.New("archive checksum mismatch")
)

// Archive wraps one run result with the identity needed to reproduce it.
type Archive struct {
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`

	Cascade     *contagion.CascadeResult     `json:"cascade,omitempty"`
	Criticality *contagion.CriticalityReport `json:"criticality,omitempty"`
}

// NewCascadeArchive wraps a cascade result with a fresh run id.
func NewCascadeArchive(result *contagion.CascadeResult) *Archive {
	return &Archive{
		RunID:     uuid.NewString(),
		Kind:      KindCascade,
		CreatedAt: time.Now().UTC(),
		Cascade:   result,
	}
}

// NewCriticalityArchive wraps a criticality report with a fresh run id.
func NewCriticalityArchive(report *contagion.CriticalityReport) *Archive {
	return &Archive{
		RunID:       uuid.NewString(),
		Kind:        KindCriticality,
		CreatedAt:   time.Now().UTC(),
		Criticality: report,
	}
}

// WriteJSON writes a value as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Write frames, compresses and checksums an archive onto the writer.
func Write(w io.Writer, a *Archive) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("export: marshal archive: %w", err)
	}

	compressed := snappy.Encode(nil, payload)

	if _, err := w.Write(archiveMagic[:]); err != nil {
		return fmt.Errorf("export: write magic: %w", err)
	}
	if _, err := w.Write([]byte{archiveVersion}); err != nil {
		return fmt.Errorf("export: write version: %w", err)
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(compressed)))
	if _, err := w.Write(length[:]); err != nil {
		return fmt.Errorf("export: write length: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("export: write payload: %w", err)
	}

	var checksum [4]byte
	binary.BigEndian.PutUint32(checksum[:], crc32.ChecksumIEEE(compressed))
	if _, err := w.Write(checksum[:]); err != nil {
		return fmt.Errorf("export: write checksum: %w", err)
	}
	return nil
}

// Read decodes an archive from the reader, verifying magic, version and
// checksum before any JSON is touched.
func Read(r io.Reader) (*Archive, error) {
	var header [9]byte // magic + version + length
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("export: read header: %w", err)
	}
	if [4]byte(header[:4]) != archiveMagic {
		return nil, ErrBadMagic
	}
	if header[4] != archiveVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[4])
	}

	length := binary.BigEndian.Uint32(header[5:9])
	compressed := make([]byte, length)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("export: read payload: %w", err)
	}

	var checksum [4]byte
	if _, err := io.ReadFull(r, checksum[:]); err != nil {
		return nil, fmt.Errorf("export: read checksum: %w", err)
	}
	if binary.BigEndian.Uint32(checksum[:]) != crc32.ChecksumIEEE(compressed) {
		return nil, ErrChecksumMismatch
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("export: decompress payload: %w", err)
	}

	var a Archive
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("export: unmarshal archive: %w", err)
	}
	return &a, nil
}

// WriteFile writes an archive to the given path.
func WriteFile(path string, a *Archive) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, a); err != nil {
		return err
	}
	return f.Sync()
}

// ReadFile reads an archive from the given path.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}
