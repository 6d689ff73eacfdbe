package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSingerSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewSingerSink(&buf)
	ctx := context.Background()

	require.NoError(t, s.WriteSchema(ctx, "category", json.RawMessage(`{"type":"object"}`), []string{"id"}))
	require.NoError(t, s.WriteRecord(ctx, "category", category{ID: "t11", Name: "laptops"}))
	require.NoError(t, s.Close())

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "SCHEMA", lines[0]["type"])
	assert.Equal(t, "category", lines[0]["stream"])
	assert.Equal(t, []any{"id"}, lines[0]["key_properties"])
	assert.Equal(t, map[string]any{"type": "object"}, lines[0]["schema"])

	assert.Equal(t, "RECORD", lines[1]["type"])
	assert.Equal(t, map[string]any{"id": "t11", "name": "laptops"}, lines[1]["record"])
}

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: arguments})
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestPostgresSink_UpsertsRecordsByKey(t *testing.T) {
	db := &fakeExecer{}
	runID := uuid.New()
	s := newPostgresSink(db, "tap_records", runID)
	ctx := context.Background()

	require.NoError(t, s.WriteSchema(ctx, "category_parent", nil, []string{"categoryId", "parentId"}))
	require.NoError(t, s.WriteSchema(ctx, "category", nil, []string{"id"}))
	require.Len(t, db.calls, 1, "table is created once")
	assert.Contains(t, db.calls[0].sql, `CREATE TABLE IF NOT EXISTS "tap_records"`)

	require.NoError(t, s.WriteRecord(ctx, "category_parent", map[string]string{"categoryId": "t12", "parentId": "t11"}))
	require.Len(t, db.calls, 2)

	insert := db.calls[1]
	assert.Contains(t, insert.sql, "ON CONFLICT (stream, record_key)")
	require.Len(t, insert.args, 4)
	assert.Equal(t, "category_parent", insert.args[0])
	assert.Equal(t, "t12|t11", insert.args[1])
	assert.Equal(t, runID.String(), insert.args[2])
	assert.JSONEq(t, `{"categoryId":"t12","parentId":"t11"}`, string(insert.args[3].([]byte)))
}

func TestPostgresSink_Errors(t *testing.T) {
	ctx := context.Background()

	s := newPostgresSink(&fakeExecer{}, "tap_records", uuid.New())
	err := s.WriteRecord(ctx, "category", category{ID: "t11"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema")

	require.NoError(t, s.WriteSchema(ctx, "product", nil, []string{"sku", "tenantId"}))
	err = s.WriteRecord(ctx, "product", map[string]any{"sku": "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenantId")

	boom := errors.New("connection reset")
	failing := newPostgresSink(&fakeExecer{err: boom}, "tap_records", uuid.New())
	assert.ErrorIs(t, failing.WriteSchema(ctx, "category", nil, []string{"id"}), boom)
}

type fakeStreams struct {
	added []*redis.XAddArgs
	err   error
}

func (f *fakeStreams) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", f.err)
}

func TestRedisSink(t *testing.T) {
	streams := &fakeStreams{}
	s := newRedisSink(streams, "upscale:stream:")
	ctx := context.Background()

	require.NoError(t, s.WriteSchema(ctx, "category", json.RawMessage(`{"type":"object"}`), []string{"id"}))
	require.NoError(t, s.WriteRecord(ctx, "category", category{ID: "t11", Name: "laptops"}))
	require.NoError(t, s.Close())

	require.Len(t, streams.added, 2)
	assert.Equal(t, "upscale:stream:category", streams.added[0].Stream)

	schema := streams.added[0].Values.(map[string]interface{})
	assert.Equal(t, "SCHEMA", schema["type"])
	assert.True(t, strings.Contains(schema["data"].(string), `"key_properties":["id"]`))

	rec := streams.added[1].Values.(map[string]interface{})
	assert.Equal(t, "RECORD", rec["type"])
	assert.JSONEq(t, `{"id":"t11","name":"laptops"}`, rec["data"].(string))
}

func TestRedisSink_PropagatesErrors(t *testing.T) {
	boom := errors.New("READONLY")
	s := newRedisSink(&fakeStreams{err: boom}, "p:")

	err := s.WriteRecord(context.Background(), "category", category{ID: "t11"})
	assert.ErrorIs(t, err, boom)
}
