package msgraph

import (
	"time"

	"opevents/internal/domain/event"
)

// fieldMap is the single source of truth for translating logical field
// names to the list store's internal column names, in both directions.
// The columns were provisioned with these internal names; adjust here
// if a deployment's list differs.
var fieldMap = map[string]string{
	event.FieldReporter:         "field_6",
	event.FieldCategory:         "field_7",
	event.FieldCause:            "field_10",
	event.FieldProjectNumber:    "field_8",
	event.FieldPartNumber:       "field_9",
	event.FieldAssignee:         "field_12",
	event.FieldComments:         "field_11",
	event.FieldDetectedAt:       "field_14",
	event.FieldCorrectiveAction: "AccionCorrectiva",
	event.FieldPreventiveAction: "AccionPreventiva",
	event.FieldPlannedAt:        "FechaPlan",
	event.FieldClosedAt:         "FechaReal",
	event.FieldStatus:           "Status",
}

var reverseFieldMap = func() map[string]string {
	out := make(map[string]string, len(fieldMap))
	for logical, internal := range fieldMap {
		out[internal] = logical
	}
	return out
}()

// toListFields translates logical keys to internal column names,
// serializing timestamps to RFC 3339 text. Keys outside the map and
// nil values are dropped: the store only ever sees known columns.
func toListFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for logical, value := range fields {
		internal, ok := fieldMap[logical]
		if !ok || value == nil {
			continue
		}
		if t, ok := value.(time.Time); ok {
			value = t.Format(time.RFC3339)
		}
		out[internal] = value
	}
	return out
}

// fromListFields translates internal column names back to logical
// keys. Names absent from the map (id, odata metadata, extra columns)
// pass through unchanged.
func fromListFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for internal, value := range fields {
		if logical, ok := reverseFieldMap[internal]; ok {
			out[logical] = value
			continue
		}
		out[internal] = value
	}
	return out
}
