package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriterHoldsPartialLines(t *testing.T) {
	var out bytes.Buffer
	w := newLineWriter("> ", &out)

	n, err := w.Write([]byte("slot A va"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Empty(t, out.String())

	_, err = w.Write([]byte("lid\nslot B empty\nsave ind"))
	require.NoError(t, err)
	assert.Equal(t, "> slot A valid\n> slot B empty\n", out.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "> slot A valid\n> slot B empty\n> save ind\n", out.String())
	require.NoError(t, w.Flush())
}

// countingWriter records how many Write calls it sees
type countingWriter struct {
	mu     sync.Mutex
	writes []string
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, string(p))
	return len(p), nil
}

func TestLineWriterEmitsWholeLines(t *testing.T) {
	out := &countingWriter{}
	w := newLineWriter(LineMarker, out)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Write([]byte("upload done\n"))
		}()
	}
	wg.Wait()

	require.Len(t, out.writes, 8)
	for _, line := range out.writes {
		assert.Equal(t, LineMarker+"upload done\n", line)
	}
}

func TestNewMarksTextLines(t *testing.T) {
	var out bytes.Buffer
	logger := New(Options{Name: "savebox-test", Level: "debug", Output: &out})
	logger.Debug("loaded block", "block_id", 13)

	line := out.String()
	assert.True(t, strings.HasPrefix(line, LineMarker), "line %q", line)
	assert.Contains(t, line, "block_id=13")
}

func TestNewJSONLines(t *testing.T) {
	var out bytes.Buffer
	logger := New(Options{Name: "savebox-test", Level: "info", Output: &out, JSON: true})
	logger.Info("save uploaded", "records", 420)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "save uploaded", entry["@message"])
	assert.Equal(t, float64(420), entry["records"])
}

func TestNewLoggerReadsJSONEnv(t *testing.T) {
	t.Setenv(envJSON, "1")

	var out bytes.Buffer
	NewLogger("savebox-test", "warn", &out).Warn("bad egg")
	assert.True(t, strings.HasPrefix(out.String(), "{"), "line %q", out.String())
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    hclog.Level
		wantErr bool
	}{
		{"", hclog.Warn, false},
		{"trace", hclog.Trace, false},
		{" DEBUG ", hclog.Debug, false},
		{"off", hclog.Off, false},
		{"loud", hclog.NoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv(envLevel, "")
	assert.Equal(t, DefaultLevel, GetLogLevel())

	t.Setenv(envLevel, "trace")
	assert.Equal(t, "trace", GetLogLevel())
}

func TestOrNull(t *testing.T) {
	assert.NotNil(t, OrNull(nil))

	logger := hclog.New(&hclog.LoggerOptions{Name: "x"})
	assert.Equal(t, logger, OrNull(logger))
}
