package model

import "time"

// Record is a loosely typed task record as read from an external source.
// Field presence and value types are not guaranteed.
type Record map[string]any

// Known record field names. Aliases are accepted by the normalizer.
const (
	RecordFieldID            = "id"
	RecordFieldName          = "name"
	RecordFieldStart         = "start_date"
	RecordFieldEnd           = "end_date"
	RecordFieldLocationStart = "station_start"
	RecordFieldLocationEnd   = "station_end"
	RecordFieldProgress      = "progress"
	RecordFieldStatus        = "status"
	RecordFieldDependencies  = "dependencies"
	RecordFieldWeek          = "pull_plan_week"
	RecordFieldConstraints   = "constraints"
)

// RecordDateLayout is the date layout used when tasks are written back as records.
// Instants that are not at midnight use RFC3339.
const RecordDateLayout = "2006-01-02"

// FormatRecordTime formats an instant the way records carry it.
func FormatRecordTime(t time.Time) string {
	t = t.UTC()
	if t.Equal(Day(t)) {
		return t.Format(RecordDateLayout)
	}
	return t.Format(time.RFC3339)
}

// RecordFromTask converts a canonical task into the record shape the stores expose.
func RecordFromTask(t Task) Record {
	r := Record{
		RecordFieldID:       t.ID,
		RecordFieldName:     t.Name,
		RecordFieldStart:    FormatRecordTime(t.Start),
		RecordFieldEnd:      FormatRecordTime(t.End),
		RecordFieldProgress: t.Progress,
		RecordFieldStatus:   string(t.Status),
		RecordFieldWeek:     t.Week,
	}
	if t.LocationStart != nil {
		r[RecordFieldLocationStart] = *t.LocationStart
	}
	if t.LocationEnd != nil {
		r[RecordFieldLocationEnd] = *t.LocationEnd
	}

	deps := make([]any, 0, len(t.Dependencies))
	for _, d := range t.Dependencies {
		deps = append(deps, d)
	}
	r[RecordFieldDependencies] = deps

	cons := make([]any, 0, len(t.Constraints))
	for _, c := range t.Constraints {
		cons = append(cons, c)
	}
	r[RecordFieldConstraints] = cons

	return r
}
