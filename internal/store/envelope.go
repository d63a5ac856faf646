package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/revealboard/internal/common"
	"golang.org/x/crypto/blake2b"
)

// SchemaVersion is the envelope version written by this build.
//
// Version history:
//
//	0  bare JSON document, no envelope (older builds)
//	1  {"schema":1,"writer":..,"checksum":..,"data":..}
//
// A new version must add a case to upgrade that rewrites the previous
// version's data into the current shape.
const SchemaVersion = 1

type envelope struct {
	Schema   int             `json:"schema"`
	Writer   string          `json:"writer,omitempty"`
	Checksum string          `json:"checksum"`
	Data     json.RawMessage `json:"data"`
}

func checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// seal wraps v in a current-version envelope.
func seal(writer string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return json.Marshal(envelope{
		Schema:   SchemaVersion,
		Writer:   writer,
		Checksum: checksum(data),
		Data:     data,
	})
}

// open validates a stored value and returns its document upgraded to
// SchemaVersion.
func open(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("malformed document")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		// not an object: a version 0 scalar or array
		return upgrade(0, raw)
	}
	if _, ok := probe["schema"]; !ok {
		return upgrade(0, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Schema < 1 || env.Schema > SchemaVersion {
		return nil, fmt.Errorf("%w: %d", common.ErrUnsupportedSchema, env.Schema)
	}
	if checksum(env.Data) != env.Checksum {
		return nil, common.ErrChecksumMismatch
	}
	return upgrade(env.Schema, env.Data)
}

func upgrade(from int, data json.RawMessage) (json.RawMessage, error) {
	switch from {
	case 0:
		// The model decoders accept version 0 shapes (bare arrays for sets
		// and ledgers, username strings for reveals) directly.
		return data, nil
	case SchemaVersion:
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %d", common.ErrUnsupportedSchema, from)
	}
}
