package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationNames(t *testing.T) {
	testCases := []struct {
		input    string
		expected uint8
		name     string
	}{
		{"", OP_NONE, "NONE"},
		{"raw", OP_NONE, "NONE"},
		{"gzip", OP_GZIP, "GZIP"},
		{"GZ", OP_GZIP, "GZIP"},
		{"bzip2", OP_BZIP2, "BZIP2"},
		{" bz2 ", OP_BZIP2, "BZIP2"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			id, err := ParseName(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, id)
			assert.Equal(t, tc.name, GetName(id))
		})
	}

	_, err := ParseName("zstd")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN_7f", GetName(0x7f))
}

func TestNoneOperation(t *testing.T) {
	op, err := Get(OP_NONE)
	require.NoError(t, err)

	data := []byte("[]")
	out, err := op.Apply(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
	assert.Equal(t, uint8(OP_NONE), Detect(data))

	_, err = Get(0x7f)
	assert.Error(t, err)
}

func TestParseChainLimit(t *testing.T) {
	_, err := ParseChain("gzip|gzip|gzip|gzip|gzip|gzip|gzip|gzip|gzip")
	assert.Error(t, err)

	chain, err := ParseChain("raw")
	require.NoError(t, err)
	assert.Empty(t, chain)
}
