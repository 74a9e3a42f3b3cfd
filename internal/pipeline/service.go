// Package pipeline wires the dataset, resolver, checkers, metadata
// reader and cache into the operations the CLI exposes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dvincze/phototz/internal/cache"
	"github.com/dvincze/phototz/internal/check"
	"github.com/dvincze/phototz/internal/exiftool"
	"github.com/dvincze/phototz/internal/geo"
	"github.com/dvincze/phototz/internal/model"
	"github.com/dvincze/phototz/internal/report"
	"github.com/dvincze/phototz/internal/tzdata"
	"github.com/dvincze/phototz/internal/tzrule"
)

// Service orchestrates the complete check process
type Service struct {
	resolver *tzrule.Resolver
	tzCheck  *check.TimezoneChecker
	dtCheck  *check.DatetimeChecker
	reader   *exiftool.Reader
	records  *cache.RecordStore
	config   *model.Config
}

// NewService creates a service from the given configuration. The
// polygon index is built lazily on first use, so commands that never
// resolve coordinates work without the dataset installed.
func NewService(cfg *model.Config) (*Service, error) {
	dataset := tzdata.Open(cfg.DataDir)
	handle := geo.NewHandle(func() (*geo.Index, error) {
		sources, err := dataset.SourcePaths()
		if err != nil {
			return nil, err
		}
		return geo.LoadOrBuild(dataset.ArtifactPath(), sources, dataset.LoadPolygons)
	})

	resolver := tzrule.NewResolver(handle, tzrule.NewProvider(), cfg.Resolver.CoarseFallback)

	catalog := check.DefaultCatalog()

	var records *cache.RecordStore
	if cfg.Cache.Enabled {
		disk, err := cache.NewDiskCache(cfg.Cache.Dir)
		if err != nil {
			if cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "Warning: disk cache disabled: %v\n", err)
			}
			records = cache.NewRecordStore(cache.NewMemoryCache(cfg.Cache.MemoryTTL), cfg.Cache.MemoryTTL)
		} else {
			layered := cache.NewLayeredCache(cache.NewMemoryCache(cfg.Cache.MemoryTTL), disk)
			records = cache.NewRecordStore(layered, cfg.Cache.DiskTTL)
		}
	}

	return &Service{
		resolver: resolver,
		tzCheck:  check.NewTimezoneChecker(resolver),
		dtCheck:  check.NewDatetimeChecker(catalog),
		reader:   exiftool.NewReader(cfg.Exiftool),
		records:  records,
		config:   cfg,
	}, nil
}

// ResolveTimezone returns the IANA zone for the coordinates, or ""
// when the point resolves to no zone.
func (s *Service) ResolveTimezone(lat, lon float64) (string, error) {
	return s.resolver.ResolveZone(lat, lon, s.config.Resolver.ToleranceDeg)
}

// OffsetFor returns the UTC offset in effect at the coordinates for
// the naive local timestamp.
func (s *Service) OffsetFor(lat, lon float64, naive time.Time) (time.Duration, bool, error) {
	return s.resolver.OffsetFor(lat, lon, naive)
}

// ReadRecord reads the metadata record for path, memoized on the
// file's identity.
func (s *Service) ReadRecord(ctx context.Context, path string) (model.Record, error) {
	if rec, ok := s.records.Get(path); ok {
		return rec, nil
	}
	rec, err := s.reader.ReadOne(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.records.Put(path, rec); err != nil && s.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Warning: cache write failed for %s: %v\n", path, err)
	}
	return rec, nil
}

// CheckTimezone runs the GPS-vs-declared-offset check on the record.
func (s *Service) CheckTimezone(rec model.Record) error {
	return s.tzCheck.Check(rec, s.config.Checks.BorderToleranceMeters)
}

// CheckDatetime runs the datetime tag consistency check on the record.
func (s *Service) CheckDatetime(rec model.Record) *model.ConsistencyResult {
	return s.dtCheck.Check(rec)
}

// CheckFile reads one file and runs both checks, folding the outcome
// into a single report. The timezone check is skipped, not failed,
// when the record has no GPS fix or no capture time.
func (s *Service) CheckFile(ctx context.Context, path string) report.FileReport {
	fr := report.FileReport{Path: path, Verdict: report.VerdictOK}

	rec, err := s.ReadRecord(ctx, path)
	if err != nil {
		fr.Verdict = report.VerdictError
		fr.Error = err.Error()
		return fr
	}

	var tzSkip string
	if err := s.CheckTimezone(rec); err != nil {
		var (
			noGps      *check.NoGpsError
			noCapture  *check.NoCaptureDateTimeError
			unresolved *check.UnresolvedZoneError
			mismatch   *check.TzMismatchError
		)
		switch {
		case errors.As(err, &noGps), errors.As(err, &noCapture), errors.As(err, &unresolved):
			tzSkip = err.Error()
		case errors.As(err, &mismatch):
			fr.Verdict = report.VerdictTzMismatch
			fr.Mismatch = err.Error()
		default:
			fr.Verdict = report.VerdictError
			fr.Error = err.Error()
			return fr
		}
	} else if lat, lon, err := check.RecordLatLon(rec); err == nil {
		if zone, zerr := s.ResolveTimezone(lat, lon); zerr == nil {
			fr.Zone = zone
		}
	}

	result := s.CheckDatetime(rec)
	if !result.Empty() {
		fr.Tags = result
		if fr.Verdict != report.VerdictTzMismatch {
			switch {
			case len(result.Fatal) > 0:
				fr.Verdict = report.VerdictFatal
			case len(result.Deletable) > 0:
				fr.Verdict = report.VerdictDeletable
			default:
				fr.Verdict = report.VerdictFixable
			}
		}
	}

	if fr.Verdict == report.VerdictOK && tzSkip != "" {
		fr.Verdict = report.VerdictSkipped
		fr.Skipped = tzSkip
	}
	return fr
}
