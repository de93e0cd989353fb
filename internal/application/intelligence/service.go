// Package intelligence orchestrates one analysis run: fetch competitive
// records from both providers, score them, aggregate the executive summary,
// and publish alerts for critical findings.
package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/domain/madison"
	"github.com/helix-insights/madison/internal/infrastructure/database/redis"
	"github.com/helix-insights/madison/internal/infrastructure/messaging/kafka"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/prometheus"
	"github.com/helix-insights/madison/internal/infrastructure/providers"
	"github.com/helix-insights/madison/pkg/errors"
	"github.com/helix-insights/madison/pkg/types/intel"
)

// cacheName labels the provider-response cache in metrics.
const cacheName = "provider"

// Provider is one external competitive-data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, now time.Time, q providers.Query) ([]intel.Record, error)
}

// AlertPublisher pushes intelligence events to downstream consumers.
type AlertPublisher interface {
	PublishThreatAlert(ctx context.Context, payload kafka.ThreatAlertPayload) error
	PublishAnalysisCompleted(ctx context.Context, payload kafka.AnalysisCompletedPayload) error
}

// Service runs analyses and projects their results.
type Service interface {
	// Run executes one full analysis for q.
	Run(ctx context.Context, q intel.Query) (*intel.Report, error)

	// TableRows projects a report into display rows.
	TableRows(report *intel.Report) []intel.TableRow
}

// Option customises a Service built by NewService.
type Option func(*service)

// WithCache enables provider-batch caching.
func WithCache(cache redis.Cache, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithPublisher enables event publishing.
func WithPublisher(p AlertPublisher) Option {
	return func(s *service) { s.publisher = p }
}

// WithMetrics enables instrumentation.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

// withNow fixes the reference clock, for tests.
func withNow(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	fda      Provider
	trials   Provider
	analyzer *madison.BatchAnalyzer
	cfg      config.AnalysisConfig
	logger   logging.Logger

	cache     redis.Cache
	cacheTTL  time.Duration
	publisher AlertPublisher
	metrics   *prometheus.Metrics

	now func() time.Time
}

// NewService wires the analysis pipeline.  Cache, publisher and metrics are
// optional; the pipeline degrades gracefully without them.
func NewService(fda, trials Provider, cfg config.AnalysisConfig, log logging.Logger, opts ...Option) Service {
	s := &service{
		fda:      fda,
		trials:   trials,
		analyzer: madison.NewBatchAnalyzer(madison.NewScorer(), cfg.Workers),
		cfg:      cfg,
		logger:   log.Named("intelligence"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Run(ctx context.Context, q intel.Query) (*intel.Report, error) {
	if q.DaysBack <= 0 {
		q.DaysBack = s.cfg.DefaultDaysBack
	}
	if q.Depth == "" {
		q.Depth = intel.DepthQuick
	}
	limit, err := s.depthLimit(q.Depth)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	now := s.now()
	term := q.EffectiveTerm()

	pq := providers.Query{Term: term, DaysBack: q.DaysBack, Limit: limit}

	var fdaRecords, trialRecords []intel.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fdaRecords = s.fetch(gctx, s.fda, now, pq)
		return nil
	})
	g.Go(func() error {
		trialRecords = s.fetch(gctx, s.trials, now, pq)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "analysis cancelled")
	}

	records := make([]intel.Record, 0, len(fdaRecords)+len(trialRecords))
	records = append(records, fdaRecords...)
	records = append(records, trialRecords...)
	if len(records) > limit {
		records = records[:limit]
	}

	scored, err := s.analyzer.Analyze(ctx, now, records)
	if err != nil {
		s.observeRun(q.Depth, err, started)
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "batch analysis failed")
	}

	summary := madison.Summarize(scored)
	report := &intel.Report{
		ReportID:        uuid.New().String(),
		GeneratedAt:     now,
		Query:           q,
		Summary:         summary,
		DetailedRecords: scored,
	}

	s.recordBatchMetrics(scored)
	s.publishEvents(ctx, report, term)
	s.observeRun(q.Depth, nil, started)

	s.logger.Info("analysis run completed",
		logging.String("report_id", report.ReportID),
		logging.String("term", term),
		logging.Int("records", summary.TotalRecords),
		logging.Int("critical", summary.ThreatOverview[intel.ThreatCritical]),
		logging.Duration("elapsed", time.Since(started)))
	return report, nil
}

func (s *service) TableRows(report *intel.Report) []intel.TableRow {
	if report == nil {
		return []intel.TableRow{}
	}
	return madison.TableRows(report.DetailedRecords)
}

func (s *service) depthLimit(depth intel.Depth) (int, error) {
	switch depth {
	case intel.DepthQuick:
		return s.cfg.QuickLimit, nil
	case intel.DepthDeep:
		return s.cfg.DeepLimit, nil
	default:
		return 0, errors.New(errors.ErrCodeQueryInvalid, "unknown analysis depth").
			WithDetail("depth=" + string(depth))
	}
}

// fetch loads one provider batch, serving from cache when enabled.  Provider
// failures degrade to an empty batch so one source outage cannot sink a run.
func (s *service) fetch(ctx context.Context, p Provider, now time.Time, q providers.Query) []intel.Record {
	fetchStart := time.Now()
	records, err := s.fetchCached(ctx, p, now, q)
	if s.metrics != nil {
		s.metrics.ObserveProviderFetch(p.Name(), err, time.Since(fetchStart))
	}
	if err != nil {
		s.logger.Warn("provider fetch failed, continuing without batch",
			logging.String("provider", p.Name()),
			logging.Err(err))
		return []intel.Record{}
	}
	return records
}

func (s *service) fetchCached(ctx context.Context, p Provider, now time.Time, q providers.Query) ([]intel.Record, error) {
	if s.cache == nil {
		return p.Fetch(ctx, now, q)
	}

	// The reference date is part of the key so a cached window never leaks
	// into the next day.
	key := fmt.Sprintf("provider:%s:%s:%d:%d:%s",
		p.Name(), q.Term, q.DaysBack, q.Limit, now.Format("2006-01-02"))

	var records []intel.Record
	loaded := false
	err := s.cache.GetOrSet(ctx, key, &records, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return p.Fetch(ctx, now, q)
	})
	if err == nil && s.metrics != nil {
		if loaded {
			s.metrics.CacheMissesTotal.WithLabelValues(cacheName).Inc()
		} else {
			s.metrics.CacheHitsTotal.WithLabelValues(cacheName).Inc()
		}
	}
	return records, err
}

func (s *service) recordBatchMetrics(scored []intel.ScoredRecord) {
	if s.metrics == nil {
		return
	}
	for _, rec := range scored {
		s.metrics.RecordsAnalyzedTotal.WithLabelValues(rec.Source).Inc()
		s.metrics.ThreatLevelTotal.WithLabelValues(string(rec.MadisonIntelligence.ThreatLevel)).Inc()
	}
}

// publishEvents emits one alert per critical record plus the run-completed
// event.  Publishing is best effort.
func (s *service) publishEvents(ctx context.Context, report *intel.Report, term string) {
	if s.publisher == nil {
		return
	}

	for _, rec := range report.DetailedRecords {
		if rec.MadisonIntelligence.ThreatLevel != intel.ThreatCritical {
			continue
		}
		urgent := "Review immediately"
		if len(rec.MadisonIntelligence.ActionItems) > 0 {
			urgent = rec.MadisonIntelligence.ActionItems[0].Action
		}
		err := s.publisher.PublishThreatAlert(ctx, kafka.ThreatAlertPayload{
			ReportID:     report.ReportID,
			Company:      rec.Company,
			Product:      rec.ProductOrTrial(),
			ThreatScore:  rec.MadisonIntelligence.ThreatScore,
			ThreatLevel:  string(rec.MadisonIntelligence.ThreatLevel),
			Confidence:   rec.MadisonIntelligence.Confidence,
			UrgentAction: urgent,
			RecordSource: rec.Source,
			DetectedAt:   report.GeneratedAt,
		})
		s.observeAlert(err)
		if err != nil {
			s.logger.Warn("threat alert publish failed",
				logging.String("company", rec.Company),
				logging.Err(err))
		}
	}

	err := s.publisher.PublishAnalysisCompleted(ctx, kafka.AnalysisCompletedPayload{
		ReportID:          report.ReportID,
		SearchTerm:        term,
		TotalRecords:      report.Summary.TotalRecords,
		CriticalCount:     report.Summary.ThreatOverview[intel.ThreatCritical],
		HighCount:         report.Summary.ThreatOverview[intel.ThreatHigh],
		AverageConfidence: report.Summary.AverageConfidence,
		CompletedAt:       report.GeneratedAt,
	})
	if err != nil {
		s.logger.Warn("run-completed publish failed", logging.Err(err))
	}
}

func (s *service) observeAlert(err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.AlertsPublishedTotal.WithLabelValues(status).Inc()
}

func (s *service) observeRun(depth intel.Depth, err error, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRun(string(depth), err, time.Since(started))
}
