package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// SingerSink writes Singer SCHEMA and RECORD messages as JSON lines
type SingerSink struct {
	enc *json.Encoder
}

func NewSingerSink(w io.Writer) *SingerSink {
	return &SingerSink{enc: json.NewEncoder(w)}
}

func (s *SingerSink) WriteSchema(ctx context.Context, stream string, schema json.RawMessage, keyProperties []string) error {
	if err := s.enc.Encode(newSchemaMessage(stream, schema, keyProperties)); err != nil {
		return fmt.Errorf("failed to write schema for %s: %w", stream, err)
	}
	return nil
}

func (s *SingerSink) WriteRecord(ctx context.Context, stream string, record any) error {
	if err := s.enc.Encode(newRecordMessage(stream, record)); err != nil {
		return fmt.Errorf("failed to write %s record: %w", stream, err)
	}
	return nil
}

func (s *SingerSink) Close() error {
	return nil
}
