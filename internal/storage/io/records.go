package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/slok/bbschedule/internal/model"
)

// RecordsRepository reads loosely typed task records from files. JSON files may
// have comments and trailing commas, YAML is selected by the file extension.
type RecordsRepository struct {
	fs fs.FS
}

// NewRecordsRepository returns a new records repository.
func NewRecordsRepository(filesystem fs.FS) *RecordsRepository {
	return &RecordsRepository{fs: filesystem}
}

// ListTaskRecords reads the records of a file. The file can have a list of records
// or an object with the records on the `tasks` key.
func (r *RecordsRepository) ListTaskRecords(ctx context.Context, path string) ([]model.Record, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc", ".hujson":
		raw, err = decodeJSONC(data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported records file extension %q: %w", ext, model.ErrNotValid)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}

	return toRecords(raw)
}

func decodeJSONC(data []byte) (any, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return raw, nil
}

func toRecords(raw any) ([]model.Record, error) {
	if obj, ok := raw.(map[string]any); ok {
		tasks, ok := obj["tasks"]
		if !ok {
			return nil, fmt.Errorf("records object without tasks key: %w", model.ErrNotValid)
		}
		raw = tasks
	}
	if raw == nil {
		return []model.Record{}, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("records must be a list, got %T: %w", raw, model.ErrNotValid)
	}

	recs := make([]model.Record, 0, len(items))
	for _, item := range items {
		// Non object items become empty records, the normalizer drops them.
		obj, _ := item.(map[string]any)
		recs = append(recs, model.Record(obj))
	}
	return recs, nil
}
