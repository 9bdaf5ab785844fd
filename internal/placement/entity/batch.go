package entity

// ParseMeta summarizes how much of an upload made it into records.
type ParseMeta struct {
	Format     SourceFormat `json:"format"`
	TotalLines int          `json:"totalLines"`
	DataRows   int          `json:"dataRows"`
	ParsedOK   int          `json:"parsedOK"`
	Dropped    int          `json:"dropped"`
}

type Batch struct {
	Name       string
	FileName   string
	FilePath   string
	CreatedAt  int64
	UploadedAt int64

	Records    []StudentRecord
	Statistics BatchStatistics
	Meta       ParseMeta
}
