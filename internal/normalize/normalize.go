package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
)

// Field aliases accepted on raw records, first match wins.
var (
	idFields            = []string{model.RecordFieldID, "task_id"}
	nameFields          = []string{model.RecordFieldName, "task_name", "title"}
	startFields         = []string{model.RecordFieldStart, "start", "startDate"}
	endFields           = []string{model.RecordFieldEnd, "end", "endDate"}
	locationStartFields = []string{model.RecordFieldLocationStart, "location_start", "locationStart"}
	locationEndFields   = []string{model.RecordFieldLocationEnd, "location_end", "locationEnd"}
	progressFields      = []string{model.RecordFieldProgress, "percent_complete"}
	statusFields        = []string{model.RecordFieldStatus}
	dependencyFields    = []string{model.RecordFieldDependencies, "predecessors"}
	weekFields          = []string{model.RecordFieldWeek, "week"}
	constraintFields    = []string{model.RecordFieldConstraints}
)

// dateLayouts are tried in order when parsing textual dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
}

// DefaultTaskName is used for records without a usable name.
const DefaultTaskName = "Untitled task"

// maxWeek bounds the planning week of a record, about two centuries of weeks.
const maxWeek = 10000

// NormalizerConfig is the configuration for the normalizer.
type NormalizerConfig struct {
	Logger log.Logger
}

func (c *NormalizerConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "normalize.Normalizer"})
	return nil
}

// Normalizer converts loosely typed records into canonical tasks. It doesn't access
// any network or storage.
type Normalizer struct {
	logger log.Logger
}

// NewNormalizer returns a new normalizer.
func NewNormalizer(cfg NormalizerConfig) (*Normalizer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Normalizer{logger: cfg.Logger}, nil
}

// DroppedRecord describes a record excluded from the normalized output.
type DroppedRecord struct {
	Index int
	ID    string
	Err   error
}

// Result is the result of normalizing a batch of records.
type Result struct {
	// Tasks keep the input order.
	Tasks   []model.Task
	Dropped []DroppedRecord
}

// Normalize normalizes a batch of records. Malformed records are dropped and logged,
// they never abort the batch.
func (n *Normalizer) Normalize(records []model.Record) Result {
	res := Result{Tasks: make([]model.Task, 0, len(records))}
	seen := map[string]struct{}{}

	for i, r := range records {
		t, err := n.NormalizeRecord(i, r)
		if err == nil {
			if _, ok := seen[t.ID]; ok {
				err = fmt.Errorf("duplicated id %q: %w", t.ID, model.ErrMalformedRecord)
			}
		}
		if err != nil {
			n.logger.WithValues(log.Kv{"index": i, "id": t.ID}).Warningf("Dropping record: %s", err)
			res.Dropped = append(res.Dropped, DroppedRecord{Index: i, ID: t.ID, Err: err})
			continue
		}

		seen[t.ID] = struct{}{}
		res.Tasks = append(res.Tasks, t)
	}

	return res
}

// RecordLister lists the raw task records of a project.
type RecordLister interface {
	ListTaskRecords(ctx context.Context, projectID string) ([]model.Record, error)
}

// Load lists the records of a project and normalizes them.
func (n *Normalizer) Load(ctx context.Context, l RecordLister, projectID string) (Result, error) {
	recs, err := l.ListTaskRecords(ctx, projectID)
	if err != nil {
		return Result{}, fmt.Errorf("could not read tasks: %w", err)
	}
	return n.Normalize(recs), nil
}

// NormalizeRecord normalizes a single record. The index is used to derive an id
// when the record lacks one. Returned errors wrap model.ErrMalformedRecord, the
// returned task carries the id when known.
func (n *Normalizer) NormalizeRecord(index int, r model.Record) (model.Task, error) {
	t := model.Task{
		ID:     fmt.Sprintf("record-%d", index),
		Name:   DefaultTaskName,
		Status: model.TaskStatusNotStarted,
	}

	if v, ok := lookup(r, idFields); ok {
		if id, ok := toID(v); ok {
			t.ID = id
		}
	}

	if v, ok := lookup(r, nameFields); ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			t.Name = strings.TrimSpace(s)
		}
	}

	start, err := dateField(r, startFields)
	if err != nil {
		return model.Task{ID: t.ID}, fmt.Errorf("start: %w", err)
	}
	end, err := dateField(r, endFields)
	if err != nil {
		return model.Task{ID: t.ID}, fmt.Errorf("end: %w", err)
	}
	t.Start, t.End = start, end

	t.LocationStart = optionalNumber(r, locationStartFields)
	t.LocationEnd = optionalNumber(r, locationEndFields)

	if v, ok := lookup(r, progressFields); ok {
		p, _ := toFloat(v)
		t.Progress = model.ClampProgress(int(math.Round(min(max(p, 0), 100))))
	}

	if v, ok := lookup(r, statusFields); ok {
		if s, ok := v.(string); ok {
			if st, ok := model.ParseTaskStatus(s); ok {
				t.Status = st
			} else {
				n.logger.Debugf("Unknown status %q on record %s, using %s", s, t.ID, t.Status)
			}
		}
	}

	if v, ok := lookup(r, weekFields); ok {
		w, _ := toFloat(v)
		t.Week = int(min(max(w, 0), maxWeek))
	}

	if v, ok := lookup(r, dependencyFields); ok {
		t.Dependencies = idList(v, t.ID)
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}

	if v, ok := lookup(r, constraintFields); ok {
		t.Constraints = textList(v)
	}
	if t.Constraints == nil {
		t.Constraints = []string{}
	}

	return t, nil
}

func lookup(r model.Record, fields []string) (any, bool) {
	for _, f := range fields {
		if v, ok := r[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func dateField(r model.Record, fields []string) (time.Time, error) {
	v, ok := lookup(r, fields)
	if !ok {
		return time.Time{}, fmt.Errorf("missing date: %w", model.ErrMalformedRecord)
	}

	t, err := ParseDate(v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseDate parses a date-like value into a UTC instant.
func ParseDate(v any) (time.Time, error) {
	switch vv := v.(type) {
	case time.Time:
		if vv.IsZero() {
			return time.Time{}, fmt.Errorf("zero date: %w", model.ErrMalformedRecord)
		}
		return vv.UTC(), nil
	case string:
		s := strings.TrimSpace(vv)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q: %w", vv, model.ErrMalformedRecord)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T: %w", v, model.ErrMalformedRecord)
	}
}

func optionalNumber(r model.Record, fields []string) *float64 {
	v, ok := lookup(r, fields)
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}

	// Present but not numeric falls back to zero.
	f, _ := toFloat(v)
	return &f
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch vv := v.(type) {
	case float64:
		f = vv
	case float32:
		f = float64(vv)
	case int:
		f = float64(vv)
	case int32:
		f = float64(vv)
	case int64:
		f = float64(vv)
	case uint:
		f = float64(vv)
	case uint32:
		f = float64(vv)
	case uint64:
		f = float64(vv)
	case json.Number:
		n, err := vv.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(vv), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toID(v any) (string, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func idList(v any, self string) []string {
	var raw []any
	switch vv := v.(type) {
	case []any:
		raw = vv
	case []string:
		for _, s := range vv {
			raw = append(raw, s)
		}
	case string:
		for _, s := range strings.Split(vv, ",") {
			raw = append(raw, s)
		}
	default:
		raw = []any{vv}
	}

	ids := []string{}
	seen := map[string]struct{}{}
	for _, r := range raw {
		id, ok := toID(r)
		if !ok || id == self {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func textList(v any) []string {
	var raw []any
	switch vv := v.(type) {
	case []any:
		raw = vv
	case []string:
		for _, s := range vv {
			raw = append(raw, s)
		}
	default:
		raw = []any{vv}
	}

	labels := []string{}
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			s = fmt.Sprint(r)
		}
		if s = strings.TrimSpace(s); s != "" {
			labels = append(labels, s)
		}
	}
	return labels
}
