package validators

import (
	"strings"
	"time"

	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
)

// timestampLayouts covers RFC 3339 and the values an HTML datetime-local
// input submits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseOptionalTimestamp parses field into UTC. Nil or blank input yields nil.
func ParseOptionalTimestamp(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			utc := ts.UTC()
			return &utc, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{field: "must be an RFC 3339 timestamp"})
}
