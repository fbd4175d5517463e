package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/sources"
)

// Service runs extractions against a candidate provider.
type Service struct {
	Provider     sources.Provider
	Extractor    *errorlog.Extractor
	DefaultLimit int
}

// NewService wires the classifier, extractor and candidate list for cfg.
func NewService(cfg config.Config, logger zerolog.Logger) *Service {
	wp := cfg.WordPress
	paths := errorlog.NewPathSanitizer(errorlog.Roots{
		ABSPath:     wp.ABSPath,
		ContentDir:  wp.ContentDir,
		PluginDir:   wp.PluginDir,
		MUPluginDir: wp.MUPluginDir,
	})
	classifier := errorlog.NewClassifier(paths, errorlog.NewTimeNormalizer(cfg.Logs.Location))
	extractor := errorlog.NewExtractor(errorlog.Options{
		Classifier:     classifier,
		WordPressLines: cfg.Logs.WordPressLines,
		ServerLines:    cfg.Logs.ServerLines,
		Logger:         logger,
	})
	return &Service{
		Provider:     sources.FromConfig(cfg),
		Extractor:    extractor,
		DefaultLimit: cfg.Logs.MaxResults,
	}
}

// Records extracts up to limit records from the candidates matching filter.
// A non-positive limit uses DefaultLimit.
func (s *Service) Records(ctx context.Context, filter sources.Filter, limit int) []errorlog.Record {
	records, _ := s.Scan(ctx, filter, limit)
	return records
}

// Scan is Records that also reports a failed extraction.
func (s *Service) Scan(ctx context.Context, filter sources.Filter, limit int) ([]errorlog.Record, error) {
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	return s.Extractor.Scan(ctx, s.Provider.Candidates(filter), limit)
}

// Paths lists the candidate paths for filter, without duplicates.
func (s *Service) Paths(filter sources.Filter) []string {
	return s.Provider.Paths(filter)
}
