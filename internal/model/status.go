package model

import "fmt"

// Status is the attendance state of a student on a given day.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusExcused Status = "EXCUSED"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// StatusInfo carries the presentation attributes for a status. Kept as a
// lookup table outside the data model.
type StatusInfo struct {
	Label string
	Color string // hex, used by exports
}

var statusInfo = map[Status]StatusInfo{
	StatusPresent: {Label: "Present", Color: "#4CAF50"},
	StatusAbsent:  {Label: "Absent", Color: "#F44336"},
	StatusLate:    {Label: "Late", Color: "#FF9800"},
	StatusExcused: {Label: "Excused", Color: "#2196F3"},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusInfo[s]
	return ok
}

// Info returns presentation attributes for s.
func (s Status) Info() StatusInfo {
	return statusInfo[s]
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown attendance status %q", v)
	}
	return s, nil
}
