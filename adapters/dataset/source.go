package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal"
	"penguinexplorer/internal/errors"
)

// LoadObserver is told about every read of the dataset file
type LoadObserver interface {
	ObserveLoad(duration time.Duration, records, imputed int, err error)
}

// Source owns the dataset for the life of the process. The file is read on
// the first Load; later calls return the same *Dataset, or the same error.
type Source struct {
	path     string
	logger   *internal.Logger
	observer LoadObserver

	once    sync.Once
	dataset *penguin.Dataset
	report  CleaningReport
	err     error
	loaded  atomic.Bool
}

// NewSource creates a Source for the file at path. observer may be nil.
func NewSource(path string, logger *internal.Logger, observer LoadObserver) *Source {
	return &Source{path: path, logger: logger, observer: observer}
}

// Path returns the file the source reads
func (s *Source) Path() string {
	return s.path
}

// Load reads and cleans the dataset on first use and caches the result
func (s *Source) Load(ctx context.Context) (*penguin.Dataset, error) {
	s.once.Do(func() {
		if err := ctx.Err(); err != nil {
			s.err = errors.DataUnavailable("dataset load cancelled", err)
			return
		}
		start := time.Now()
		s.dataset, s.report, s.err = s.read()
		s.loaded.Store(s.err == nil)
		if s.observer != nil {
			records := 0
			if s.dataset != nil {
				records = s.dataset.Len()
			}
			s.observer.ObserveLoad(time.Since(start), records, s.report.MissingBodyMass, s.err)
		}
	})
	return s.dataset, s.err
}

// Loaded reports whether a successful load has happened
func (s *Source) Loaded() bool {
	return s.loaded.Load()
}

// Report returns what cleaning did during the load
func (s *Source) Report() CleaningReport {
	return s.report
}

func (s *Source) read() (*penguin.Dataset, CleaningReport, error) {
	raw, err := NewDataReader(s.path, s.logger).ReadData()
	if err != nil {
		s.logger.Error("[Loader] Failed to read %s: %v", s.path, err)
		return nil, CleaningReport{}, errors.Wrap(err, "failed to load dataset")
	}

	ds, report, err := Parse(raw)
	if err != nil {
		s.logger.Error("[Loader] Failed to parse %s: %v", s.path, err)
		return nil, report, errors.Wrap(err, "failed to load dataset")
	}

	if report.MissingBodyMass > 0 {
		s.logger.Info("[Loader] Filled %d missing body_mass_g values with median %.1f", report.MissingBodyMass, report.BodyMassMedian)
	}
	s.logger.Info("[Loader] Loaded %d records (%d species, %d islands) from %s", ds.Len(), len(ds.Species()), len(ds.Islands()), s.path)
	return ds, report, nil
}
