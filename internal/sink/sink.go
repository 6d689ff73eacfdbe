package sink

import (
	"context"
	"encoding/json"
)

// Sink receives the schema of every stream before its records
type Sink interface {
	WriteSchema(ctx context.Context, stream string, schema json.RawMessage, keyProperties []string) error
	WriteRecord(ctx context.Context, stream string, record any) error
	Close() error
}

type schemaMessage struct {
	Type          string          `json:"type"`
	Stream        string          `json:"stream"`
	Schema        json.RawMessage `json:"schema"`
	KeyProperties []string        `json:"key_properties"`
}

type recordMessage struct {
	Type   string `json:"type"`
	Stream string `json:"stream"`
	Record any    `json:"record"`
}

func newSchemaMessage(stream string, schema json.RawMessage, keyProperties []string) schemaMessage {
	return schemaMessage{Type: "SCHEMA", Stream: stream, Schema: schema, KeyProperties: keyProperties}
}

func newRecordMessage(stream string, record any) recordMessage {
	return recordMessage{Type: "RECORD", Stream: stream, Record: record}
}
