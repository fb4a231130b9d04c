package server

import (
	"encoding/json"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/savebox/go/savebox/internal/cmdline"
	"github.com/provide-io/savebox/go/savebox/pkg/logging"
)

// RunBatch executes one command per line of r and writes one JSON response
// per command to w. It stops at the first malformed line.
func RunBatch(b Backend, r io.Reader, w io.Writer, logger hclog.Logger) (int, error) {
	logger = logging.OrNull(logger)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	sc := cmdline.NewScanner(r)
	n := 0
	for sc.Scan() {
		cmd := sc.Command()
		logger.Debug("📨 Batch command", "line", cmd.Line, "command", cmd.Name, "args", len(cmd.Args))

		if err := enc.Encode(Response{Data: Dispatch(b, cmd.Name, cmd.Args)}); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		logger.Error("❌ Batch aborted", "error", err, "completed", n)
		return n, err
	}
	return n, nil
}
