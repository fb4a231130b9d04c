package record

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Fields left out of the checksum
var checksumExcluded = []string{"markings", "checksum", "wonderTradeTimestamp"}

// Checksum hashes the record's fields in canonical form followed by salt
func Checksum(rec PokemonRecord, salt string) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	return ChecksumJSON(data, salt)
}

// ChecksumJSON hashes a JSON object the same way Checksum hashes a record,
// so documents from clients can be checked without decoding them first.
func ChecksumJSON(data []byte, salt string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return "", fmt.Errorf("decoding record: %w", err)
	}
	for _, key := range checksumExcluded {
		delete(obj, key)
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, obj); err != nil {
		return "", err
	}
	buf.WriteString(salt)

	sum := md5.Sum(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// writeCanonical renders v with sorted keys and ", " / ": " separators
func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case string:
		return writeString(buf, val)
	case json.Number:
		buf.WriteString(val.String())
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected JSON value %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
