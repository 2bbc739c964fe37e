package enums

import "strings"

// ItemStatus is the lifecycle label of a discounted item. The column is free
// text, so unknown values are stored as given.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
	ItemStatusSoldOut  ItemStatus = "sold_out"
)

var knownItemStatuses = []ItemStatus{
	ItemStatusActive,
	ItemStatusInactive,
	ItemStatusSoldOut,
}

func (s ItemStatus) String() string {
	return string(s)
}

// IsKnown reports whether the value is one of the statuses the frontend renders.
func (s ItemStatus) IsKnown() bool {
	for _, candidate := range knownItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// NormalizeItemStatus trims the input and falls back to active when empty.
func NormalizeItemStatus(value string) ItemStatus {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ItemStatusActive
	}
	return ItemStatus(trimmed)
}
