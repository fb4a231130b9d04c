package operations

import (
	"fmt"
	"strings"
)

// MaxChainLength bounds how many nested layers DetectChain peels off
const MaxChainLength = 8

// DetectChain reverses every recognised layer of data, outermost first. It
// returns the plain payload and the chain in application order, so
// ApplyChain(payload, chain) rebuilds data.
func DetectChain(data []byte) ([]byte, []uint8, error) {
	var reversed []uint8
	current := data

	for len(reversed) < MaxChainLength {
		id := Detect(current)
		if id == OP_NONE {
			break
		}
		op, err := Get(id)
		if err != nil {
			return nil, nil, err
		}
		result, err := op.Reverse(current)
		if err != nil {
			return nil, nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}
		reversed = append(reversed, id)
		current = result
	}

	chain := make([]uint8, len(reversed))
	for i, id := range reversed {
		chain[len(reversed)-1-i] = id
	}
	return current, chain, nil
}

// ChainString renders a chain as "raw" or a pipe-separated list
func ChainString(chain []uint8) string {
	if len(chain) == 0 {
		return "raw"
	}
	names := make([]string, len(chain))
	for i, id := range chain {
		names[i] = strings.ToLower(GetName(id))
	}
	return strings.Join(names, "|")
}

// ParseChain parses the notation produced by ChainString
func ParseChain(s string) ([]uint8, error) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(s, "raw") {
		return nil, nil
	}
	var chain []uint8
	for _, part := range strings.Split(s, "|") {
		id, err := ParseName(part)
		if err != nil {
			return nil, err
		}
		if id != OP_NONE {
			chain = append(chain, id)
		}
	}
	if len(chain) > MaxChainLength {
		return nil, fmt.Errorf("maximum %d operations allowed, got %d", MaxChainLength, len(chain))
	}
	return chain, nil
}

// ApplyChain applies a chain of operations to data
func ApplyChain(data []byte, operations []uint8) ([]byte, error) {
	current := data

	for _, opID := range operations {
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ReverseChain reverses a chain of operations on data
func ReverseChain(data []byte, operations []uint8) ([]byte, error) {
	current := data

	// Apply operations in reverse order
	for i := len(operations) - 1; i >= 0; i-- {
		opID := operations[i]
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}
