package cloud

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/savebox/go/savebox/pkg/cloud/operations"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
	"github.com/provide-io/savebox/go/savebox/pkg/save/record"
)

// Converter migrates cloud files to the current record schema
type Converter struct {
	codec  *record.Codec
	logger hclog.Logger
}

// NewConverter creates a converter with a null logger
func NewConverter(codec *record.Codec) *Converter {
	return NewConverterWithLogger(codec, nil)
}

// NewConverterWithLogger creates a converter that seals records with codec
func NewConverterWithLogger(codec *record.Codec, logger hclog.Logger) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{codec: codec, logger: logger}
}

// Convert rewrites every old-format record of f in place and returns how
// many were converted. Records already in the current format are kept
// unchanged. f is left untouched on error.
func (c *Converter) Convert(f *File) (int, error) {
	out := make([]json.RawMessage, len(f.Records))
	converted := 0

	for i, raw := range f.Records {
		data, changed, err := c.convertRecord(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: record %d: %v", saveerrors.ErrCloudRecordInvalid, i, err)
		}
		if changed {
			converted++
		}
		out[i] = data
	}

	f.Records = out
	f.SetVersion(CurrentVersion)

	c.logger.Debug("☁️ Cloud records converted", "records", len(out), "converted", converted)
	return converted, nil
}

func (c *Converter) convertRecord(raw json.RawMessage) (json.RawMessage, bool, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false, err
	}
	if obj == nil {
		return nil, false, fmt.Errorf("record is null")
	}
	if record.IsCurrentFormat(obj) {
		return raw, false, nil
	}

	var old record.LegacyRecord
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, false, err
	}
	rec := c.codec.ConvertLegacy(old)

	if ts, ok := obj["wonderTradeTimestamp"]; ok && !rec.IsBlank() {
		var v int64
		if json.Unmarshal(ts, &v) == nil {
			rec.WonderTradeTimestamp = &v
		}
	}

	data, err := marshal(rec)
	if err != nil {
		return nil, false, err
	}
	c.logger.Trace("🧬 Legacy record converted", "species", rec.Species)
	return data, true, nil
}

// ConvertFile migrates the cloud file at path in place, keeping its
// compression. The file is only rewritten when every record converts.
func (c *Converter) ConvertFile(path string) (int, error) {
	f, err := Read(path)
	if err != nil {
		return 0, err
	}

	n, err := c.Convert(f)
	if err != nil {
		return 0, err
	}

	if err := f.Write(path); err != nil {
		return 0, err
	}

	c.logger.Info("✅ Cloud file converted",
		"path", path,
		"records", len(f.Records),
		"converted", n,
		"compression", operations.ChainString(f.Chain),
	)
	return n, nil
}
