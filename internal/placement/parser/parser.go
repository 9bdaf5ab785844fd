package parser

import (
	"context"
	"io"
	"log/slog"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

// Result is the output of one parse: the records in source order plus
// counters describing what was kept and dropped.
type Result struct {
	Records []entity.StudentRecord
	Meta    entity.ParseMeta
}

// Parse reads r according to format and runs the line pipeline over it.
func Parse(ctx context.Context, format entity.SourceFormat, r io.Reader) (Result, error) {
	lines, err := ReadLines(format, r)
	if err != nil {
		return Result{}, err
	}

	res := ParseLines(ctx, lines)
	res.Meta.Format = format
	return res, nil
}

// ParseLines classifies lines and normalizes every data row against the
// header and department that are active at that point.
func ParseLines(ctx context.Context, lines []RawLine) Result {
	res := Result{
		Records: make([]entity.StudentRecord, 0, len(lines)),
		Meta:    entity.ParseMeta{TotalLines: len(lines)},
	}

	var (
		c          Classifier
		department string
		header     HeaderMap
	)

	for _, line := range lines {
		ev, ok := c.Classify(line)
		if !ok {
			continue
		}

		switch ev.Kind {
		case EventDepartmentChange:
			department = ev.Department
		case EventHeaderDetected:
			header = MapHeader(ev.Fields)
			slog.DebugContext(ctx, "placement header detected", "line", ev.Line, "department", department, "columns", len(ev.Fields), "mapped", len(header))
		case EventDataRow:
			res.Meta.DataRows++
			rec, ok := NormalizeRow(ev.Fields, header, department)
			if !ok {
				res.Meta.Dropped++
				slog.DebugContext(ctx, "placement row dropped", "line", ev.Line, "values", len(ev.Fields))
				continue
			}
			res.Records = append(res.Records, rec)
		}
	}

	res.Meta.ParsedOK = len(res.Records)
	return res
}
