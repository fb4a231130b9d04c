package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/savebox/go/savebox/pkg/cloud/operations"
)

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"species": "SPECIES_VENUSAUR", "nickname": "Zoé"}`), 64)

	testCases := []struct {
		name  string
		id    uint8
		magic []byte
	}{
		{"gzip", operations.OP_GZIP, []byte{0x1f, 0x8b}},
		{"bzip2", operations.OP_BZIP2, []byte("BZh")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := operations.Get(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.id, op.ID())

			packed, err := op.Apply(payload)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(packed, tc.magic))
			assert.Less(t, len(packed), len(payload))
			assert.Equal(t, tc.id, operations.Detect(packed))

			unpacked, err := op.Reverse(packed)
			require.NoError(t, err)
			assert.Equal(t, payload, unpacked)
		})
	}
}

func TestDetectChain(t *testing.T) {
	payload := []byte(`[{"species": "SPECIES_NONE"}]`)

	testCases := []struct {
		name  string
		chain []uint8
		text  string
	}{
		{"raw", nil, "raw"},
		{"gzip", []uint8{operations.OP_GZIP}, "gzip"},
		{"bzip2", []uint8{operations.OP_BZIP2}, "bzip2"},
		{"bzip2_then_gzip", []uint8{operations.OP_BZIP2, operations.OP_GZIP}, "bzip2|gzip"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := operations.ApplyChain(payload, tc.chain)
			require.NoError(t, err)

			plain, chain, err := operations.DetectChain(data)
			require.NoError(t, err)
			assert.Equal(t, payload, plain)
			assert.Equal(t, len(tc.chain), len(chain))
			for i := range tc.chain {
				assert.Equal(t, tc.chain[i], chain[i])
			}
			assert.Equal(t, tc.text, operations.ChainString(chain))

			parsed, err := operations.ParseChain(tc.text)
			require.NoError(t, err)
			assert.Equal(t, len(tc.chain), len(parsed))

			back, err := operations.ReverseChain(data, chain)
			require.NoError(t, err)
			assert.Equal(t, payload, back)
		})
	}
}

func TestCorruptStreams(t *testing.T) {
	_, _, err := operations.DetectChain([]byte{0x1f, 0x8b, 0x00, 0x01})
	assert.Error(t, err)

	_, _, err = operations.DetectChain([]byte("BZh9 not really"))
	assert.Error(t, err)
}
