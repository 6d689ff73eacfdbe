package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"upscale/tap/internal/record"

	log "github.com/sirupsen/logrus"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Metadata is one Singer metadata entry of a stream
type Metadata struct {
	Breadcrumb []string       `json:"breadcrumb"`
	Metadata   map[string]any `json:"metadata"`
}

type Stream struct {
	TapStreamID   string          `json:"tap_stream_id"`
	Stream        string          `json:"stream"`
	Schema        json.RawMessage `json:"schema"`
	KeyProperties []string        `json:"key_properties"`
	Metadata      []Metadata      `json:"metadata"`
}

// IsSelected reports whether the stream-level metadata marks the stream as selected
func (s Stream) IsSelected() bool {
	for _, entry := range s.Metadata {
		if len(entry.Breadcrumb) != 0 {
			continue
		}
		selected, ok := entry.Metadata["selected"].(bool)
		return ok && selected
	}
	return false
}

type Catalog struct {
	Streams []Stream `json:"streams"`
}

// Discover builds the catalog from the embedded schemas with every stream selected
func Discover() (*Catalog, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	catalog := &Catalog{}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")

		schema, err := fs.ReadFile(schemaFS, path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if !json.Valid(schema) {
			return nil, fmt.Errorf("schema %s is not valid JSON", name)
		}

		keys, ok := record.KeyProperties[name]
		if !ok {
			return nil, fmt.Errorf("no key properties known for stream %s", name)
		}

		catalog.Streams = append(catalog.Streams, Stream{
			TapStreamID:   name,
			Stream:        name,
			Schema:        schema,
			KeyProperties: keys,
			Metadata: []Metadata{{
				Breadcrumb: []string{},
				Metadata:   map[string]any{"selected": true},
			}},
		})
	}

	log.Debugf("Discovered %d streams", len(catalog.Streams))
	return catalog, nil
}

// Load reads a catalog file as passed with --catalog
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}

	return &catalog, nil
}

// Stream returns the stream with the given tap stream id
func (c *Catalog) Stream(name string) (Stream, bool) {
	for _, stream := range c.Streams {
		if stream.TapStreamID == name {
			return stream, true
		}
	}
	return Stream{}, false
}

func (c *Catalog) SelectedStreams() []Stream {
	var selected []Stream
	for _, stream := range c.Streams {
		if stream.IsSelected() {
			selected = append(selected, stream)
		}
	}
	return selected
}

// Dump writes the catalog as indented JSON
func (c *Catalog) Dump(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
