package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gmaps-scraper/models"
	"gmaps-scraper/storage"
	"gmaps-scraper/utils"
)

// ErrNoResults means there is nothing to export. Export is disabled rather
// than producing a header-only file.
var ErrNoResults = errors.New("export: no listings to export")

// ExportResult describes a completed export.
type ExportResult struct {
	Filename string
	Rows     int
	Text     string
	Sinks    []string
}

// Exporter serializes listings once and hands the result to every sink.
type Exporter struct {
	sinks   []storage.TextSink
	grids   []storage.GridWriter
	workers int
	logger  *utils.Logger
}

// NewExporter creates an Exporter. workers bounds how many sinks are
// written at the same time.
func NewExporter(logger *utils.Logger, workers int, sinks ...storage.TextSink) *Exporter {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Exporter{sinks: sinks, workers: workers, logger: logger}
}

// AddGridWriter registers a writer that receives the grid instead of the
// serialized text, under the export name with the writer's extension.
func (e *Exporter) AddGridWriter(w storage.GridWriter) {
	e.grids = append(e.grids, w)
}

// Export writes listings under the name derived from userName. Sink
// failures are joined; a sink that succeeds is listed in the result even
// when another fails.
func (e *Exporter) Export(ctx context.Context, listings []models.Listing, userName string) (*ExportResult, error) {
	if len(listings) == 0 {
		return nil, ErrNoResults
	}

	grid := BuildGrid(listings)
	res := &ExportResult{
		Filename: storage.ExportFilename(userName),
		Rows:     len(listings),
		Text:     storage.ToDelimitedText(grid),
	}

	pool := utils.NewWorkerPool(e.workers)
	var errs utils.ErrorGroup
	done := make(chan string, len(e.sinks)+len(e.grids))

	for _, s := range e.sinks {
		s := s
		pool.Submit(func() {
			if err := s.Save(ctx, res.Filename, res.Text); err != nil {
				errs.Add(fmt.Errorf("%s sink: %w", s.Name(), err))
				return
			}
			if err := e.verify(ctx, s, res); err != nil {
				errs.Add(fmt.Errorf("%s sink: %w", s.Name(), err))
				return
			}
			done <- s.Name()
		})
	}
	for _, w := range e.grids {
		w := w
		pool.Submit(func() {
			name := storage.WithExtension(res.Filename, w.Extension())
			if err := w.WriteGrid(ctx, name, grid); err != nil {
				errs.Add(fmt.Errorf("%s writer: %w", w.Name(), err))
				return
			}
			done <- w.Name()
		})
	}
	pool.Wait()
	close(done)

	for name := range done {
		res.Sinks = append(res.Sinks, name)
	}
	sort.Strings(res.Sinks)
	e.logger.Info("[export] %s: %d rows written to %d destination(s)", res.Filename, res.Rows, len(res.Sinks))

	if failed := errs.Errors(); len(failed) > 0 {
		return res, errors.Join(failed...)
	}
	return res, nil
}

// ErrStoredMismatch means a sink accepted an export but reads back
// different content.
var ErrStoredMismatch = errors.New("export: stored content differs")

// verify reads the export back from sinks that support it.
func (e *Exporter) verify(ctx context.Context, s storage.TextSink, res *ExportResult) error {
	r, ok := s.(storage.ExportReader)
	if !ok {
		return nil
	}
	stored, err := r.Latest(ctx, res.Filename)
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if stored != res.Text {
		return fmt.Errorf("%w: %d bytes stored, %d written", ErrStoredMismatch, len(stored), len(res.Text))
	}
	e.logger.Debug("[export] %s holds %d bytes for %s", s.Name(), len(stored), res.Filename)
	return nil
}
