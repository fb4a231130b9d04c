// Package cloud reads, migrates and rewrites exported record collections
// ("cloud files"). A cloud file is JSON, optionally gzip or bzip2
// compressed, holding either a bare array of records or an object whose
// "boxes" array holds them next to other keys.
package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/provide-io/savebox/go/savebox/internal/workenv"
	"github.com/provide-io/savebox/go/savebox/pkg/cloud/operations"
	_ "github.com/provide-io/savebox/go/savebox/pkg/cloud/operations/compress"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

const (
	// RecordsKey holds the record array of object-shaped files
	RecordsKey = "boxes"

	// VersionKey holds the schema version of object-shaped files
	VersionKey = "version"

	// CurrentVersion is the schema version written after migration
	CurrentVersion = 2
)

// File is a decoded cloud file
type File struct {
	// Chain is the compression applied to the file on disk
	Chain   []uint8
	Records []json.RawMessage

	// fields holds every top-level key of object-shaped files; nil for a
	// bare array.
	fields map[string]json.RawMessage
}

// Parse decodes the bytes of a cloud file, undoing any compression
func Parse(data []byte) (*File, error) {
	plain, chain, err := operations.DetectChain(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", saveerrors.ErrCloudFileInvalid, err)
	}

	f := &File{Chain: chain}
	trimmed := bytes.TrimSpace(plain)

	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		if err := json.Unmarshal(trimmed, &f.Records); err != nil {
			return nil, fmt.Errorf("%w: %v", saveerrors.ErrCloudFileInvalid, err)
		}
	case bytes.HasPrefix(trimmed, []byte("{")):
		if err := json.Unmarshal(trimmed, &f.fields); err != nil {
			return nil, fmt.Errorf("%w: %v", saveerrors.ErrCloudFileInvalid, err)
		}
		raw, ok := f.fields[RecordsKey]
		if !ok {
			return nil, fmt.Errorf("%w: no %q key", saveerrors.ErrCloudFileInvalid, RecordsKey)
		}
		if err := json.Unmarshal(raw, &f.Records); err != nil {
			return nil, fmt.Errorf("%w: %q is not an array: %v", saveerrors.ErrCloudFileInvalid, RecordsKey, err)
		}
	default:
		return nil, fmt.Errorf("%w: not a JSON array or object", saveerrors.ErrCloudFileInvalid)
	}

	if f.Records == nil {
		f.Records = []json.RawMessage{}
	}
	return f, nil
}

// Read loads and parses the cloud file at path
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// IsObject reports whether the file is object-shaped
func (f *File) IsObject() bool {
	return f.fields != nil
}

// Version returns the schema version of the file; bare arrays and objects
// without a version are version 1.
func (f *File) Version() int {
	var v int
	if raw, ok := f.fields[VersionKey]; ok && json.Unmarshal(raw, &v) == nil {
		return v
	}
	return 1
}

// Field returns a preserved top-level value of an object-shaped file
func (f *File) Field(key string) (json.RawMessage, bool) {
	raw, ok := f.fields[key]
	return raw, ok
}

// SetVersion stamps the schema version. Bare arrays carry no version.
func (f *File) SetVersion(v int) {
	if f.fields == nil {
		return
	}
	f.fields[VersionKey] = json.RawMessage(fmt.Sprint(v))
}

// Bytes encodes the file, re-applying its compression chain
func (f *File) Bytes() ([]byte, error) {
	var doc any = f.Records
	if f.fields != nil {
		records, err := marshal(f.Records)
		if err != nil {
			return nil, err
		}
		f.fields[RecordsKey] = records
		doc = f.fields
	}

	plain, err := marshal(doc)
	if err != nil {
		return nil, err
	}
	return operations.ApplyChain(plain, f.Chain)
}

// Write stores the file at path through a staging file, so a failed write
// leaves the previous contents in place.
func (f *File) Write(path string) error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	staging := workenv.StagingPath(path)
	if err := os.WriteFile(staging, data, mode); err != nil {
		return fmt.Errorf("writing staging file: %w", err)
	}
	if err := os.Rename(staging, path); err != nil {
		os.Remove(staging)
		return fmt.Errorf("replacing cloud file: %w", err)
	}
	return nil
}

// marshal encodes v without HTML escaping and without a trailing newline
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
