// Package clinicaltrials fetches interventional studies from the
// ClinicalTrials.gov v2 API.
package clinicaltrials

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/providers"
	"github.com/helix-insights/madison/pkg/errors"
	"github.com/helix-insights/madison/pkg/types/intel"
)

// SourceName is the record source label for this provider.
const SourceName = "ClinicalTrials.gov"

const (
	providerName = "clinicaltrials"

	// statusFilter keeps studies that are active or finished; withdrawn and
	// suspended studies carry no competitive signal.
	statusFilter = "RECRUITING,ACTIVE_NOT_RECRUITING,COMPLETED"

	defaultPageSize = 100
)

// Client queries the ClinicalTrials.gov studies endpoint.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	logger   logging.Logger
}

// NewClient builds a ClinicalTrials client from the endpoint configuration.
func NewClient(cfg config.ProviderEndpoint, log logging.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		pageSize: pageSize,
		http:     providers.NewHTTPClient(cfg, log),
		logger:   log.Named(providerName),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return providerName }

// Fetch returns interventional studies, optionally narrowed to a condition
// matching the query term.  The registry is not date-bounded; recency is
// judged downstream from each study's start date.
func (c *Client) Fetch(ctx context.Context, _ time.Time, q providers.Query) ([]intel.Record, error) {
	query := "AREA[StudyType]Interventional"
	if q.Term != "" {
		query += " AND AREA[Condition]" + q.Term
	}

	limit := q.Limit
	if limit <= 0 || limit > c.pageSize {
		limit = c.pageSize
	}

	params := url.Values{
		"query.term":           {query},
		"filter.overallStatus": {statusFilter},
		"pageSize":             {strconv.Itoa(limit)},
		"format":               {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build clinicaltrials request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "clinicaltrials request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.New(errors.ErrCodeDataSourceRateLimited, "clinicaltrials rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "clinicaltrials request failed").
			WithDetail("status=" + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read clinicaltrials response")
	}

	records := parseStudies(body)
	c.logger.Debug("clinicaltrials batch fetched",
		logging.String("term", q.Term),
		logging.Int("records", len(records)))
	return records, nil
}

func parseStudies(body []byte) []intel.Record {
	studies := gjson.GetBytes(body, "studies")
	records := make([]intel.Record, 0, len(studies.Array()))
	studies.ForEach(func(_, study gjson.Result) bool {
		protocol := study.Get("protocolSection")
		records = append(records, intel.Record{
			Source:     SourceName,
			Company:    stringOr(protocol.Get("sponsorCollaboratorsModule.leadSponsor.name"), "Unknown"),
			TrialTitle: stringOr(protocol.Get("identificationModule.briefTitle"), "Unknown Trial"),
			NCTID:      stringOr(protocol.Get("identificationModule.nctId"), ""),
			Status:     stringOr(protocol.Get("statusModule.overallStatus"), "Unknown"),
			StartDate:  stringOr(protocol.Get("statusModule.startDateStruct.date"), intel.NotAvailable),
			Phase:      firstPhase(protocol.Get("designModule.phases")),
		})
		return true
	})
	return records
}

// firstPhase keeps the leading phase of a multi-phase study.
func firstPhase(phases gjson.Result) string {
	arr := phases.Array()
	if len(arr) == 0 {
		return "Unknown"
	}
	return arr[0].String()
}

func stringOr(r gjson.Result, fallback string) string {
	if !r.Exists() {
		return fallback
	}
	return r.String()
}
