package parser

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"
)

// RawLine is one trimmed, non-blank line of source text.
type RawLine struct {
	Number int
	Text   string
}

type EventKind int

const (
	EventDepartmentChange EventKind = iota + 1
	EventHeaderDetected
	EventDataRow
)

func (k EventKind) String() string {
	switch k {
	case EventDepartmentChange:
		return "department_change"
	case EventHeaderDetected:
		return "header_detected"
	case EventDataRow:
		return "data_row"
	default:
		return "unknown"
	}
}

// Event is the classification of one line. Department is set for
// EventDepartmentChange, Fields for header and data rows.
type Event struct {
	Kind       EventKind
	Line       int
	Department string
	Fields     []string
}

type tableState int

const (
	stateOutside tableState = iota
	stateInTable
)

var departmentMarker = regexp.MustCompile(`(?i)^department\s*[:\-]+\s*(.*)$`)

// Classifier tags lines in order. The zero value starts outside any table.
type Classifier struct {
	state tableState
}

// InTable reports whether the classifier is inside a student table.
func (c *Classifier) InTable() bool {
	return c.state == stateInTable
}

// Classify consumes one line. ok is false for lines that produce no event
// (unit annotations, noise, table terminators).
func (c *Classifier) Classify(line RawLine) (Event, bool) {
	text := line.Text

	if m := departmentMarker.FindStringSubmatch(text); m != nil {
		c.state = stateOutside
		// spreadsheet exports pad the marker row with empty cells
		name := strings.TrimSpace(strings.TrimRight(m[1], ", \t"))
		return Event{Kind: EventDepartmentChange, Line: line.Number, Department: name}, true
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "name") && strings.Contains(lower, "company") {
		c.state = stateInTable
		labels := splitFields(text)
		for i := range labels {
			labels[i] = strings.TrimSpace(labels[i])
		}
		return Event{Kind: EventHeaderDetected, Line: line.Number, Fields: labels}, true
	}

	if c.state != stateInTable {
		return Event{}, false
	}

	if strings.Contains(lower, "in lpa") {
		return Event{}, false
	}

	if containsDigit(text) {
		return Event{Kind: EventDataRow, Line: line.Number, Fields: splitFields(text)}, true
	}

	c.state = stateOutside
	return Event{}, false
}

// Classify runs a fresh Classifier over lines.
func Classify(lines []RawLine) []Event {
	var c Classifier
	events := make([]Event, 0, len(lines))
	for _, line := range lines {
		if ev, ok := c.Classify(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

// splitFields splits a line on commas, honoring double-quoted cells such as
// "ABC, Inc.". Lines with an unbalanced quote or that the csv reader rejects
// fall back to a plain split so a stray quote cannot swallow later cells.
func splitFields(line string) []string {
	if strings.Count(line, `"`)%2 == 1 {
		return strings.Split(line, ",")
	}

	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err != nil && err != io.EOF {
		return strings.Split(line, ",")
	}
	if len(fields) == 0 {
		return []string{line}
	}
	return fields
}
