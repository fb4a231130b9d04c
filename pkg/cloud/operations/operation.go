package operations

import (
	"bytes"
	"fmt"
	"strings"
)

// Operation constants. Compression ids sit in the 0x10-0x2F range.
const (
	// No operation - raw data
	OP_NONE = 0x00

	// Compression operations (0x10-0x2F)
	OP_GZIP  = 0x10 // GZIP compression
	OP_BZIP2 = 0x13 // BZIP2 compression
)

// Operation is one reversible transformation of a cloud file's bytes
type Operation interface {
	// ID returns the operation identifier (e.g., OP_GZIP)
	ID() uint8

	// Name returns the human-readable name
	Name() string

	// Magic returns the prefix every output of Apply starts with
	Magic() []byte

	// Apply applies the operation to input data
	Apply(input []byte) ([]byte, error)

	// Reverse reverses the operation (e.g., decompress for compression)
	Reverse(input []byte) ([]byte, error)
}

// BaseOperation provides common functionality for operations
type BaseOperation struct {
	OpID    uint8
	OpName  string
	OpMagic []byte
}

func (o *BaseOperation) ID() uint8 {
	return o.OpID
}

func (o *BaseOperation) Name() string {
	return o.OpName
}

func (o *BaseOperation) Magic() []byte {
	return o.OpMagic
}

// Registry maps operation IDs to implementations
var Registry = make(map[uint8]Operation)

// Register registers an operation implementation
func Register(op Operation) {
	Registry[op.ID()] = op
}

// Get retrieves an operation by ID
func Get(id uint8) (Operation, error) {
	op, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown operation: 0x%02x", id)
	}
	return op, nil
}

// GetName returns the name of an operation by ID
func GetName(id uint8) string {
	switch id {
	case OP_NONE:
		return "NONE"
	case OP_GZIP:
		return "GZIP"
	case OP_BZIP2:
		return "BZIP2"
	default:
		return fmt.Sprintf("UNKNOWN_%02x", id)
	}
}

// ParseName returns the id of a named operation ("gzip", "BZIP2", "raw")
func ParseName(name string) (uint8, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "RAW", "NONE":
		return OP_NONE, nil
	case "GZIP", "GZ":
		return OP_GZIP, nil
	case "BZIP2", "BZ2":
		return OP_BZIP2, nil
	default:
		return 0, fmt.Errorf("unknown operation name: %s", name)
	}
}

// Detect returns the registered operation whose magic prefixes data, or
// OP_NONE when data carries no known magic.
func Detect(data []byte) uint8 {
	for id, op := range Registry {
		magic := op.Magic()
		if id != OP_NONE && len(magic) > 0 && bytes.HasPrefix(data, magic) {
			return id
		}
	}
	return OP_NONE
}
