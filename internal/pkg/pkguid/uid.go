package pkguid

// StringID produces correlation and event IDs.
type StringID interface {
	Generate() string
}

// NumberID produces time-ordered sequence numbers for notifications.
type NumberID interface {
	Generate() int64
}
