package storage

import "context"

// TextSink persists one serialized export under a file name.
type TextSink interface {
	Name() string
	Save(ctx context.Context, filename, text string) error
}

// ExportReader is implemented by sinks that can return what they stored.
type ExportReader interface {
	Latest(ctx context.Context, filename string) (string, error)
}

// GridWriter persists the export grid itself, for formats that keep cells.
type GridWriter interface {
	Name() string
	// Extension is the file suffix of the written format, e.g. ".xlsx".
	Extension() string
	WriteGrid(ctx context.Context, filename string, grid [][]string) error
}
