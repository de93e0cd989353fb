// Package fda fetches 510(k) clearance records from the openFDA device API.
package fda

import (
	"context"
	"fmt"
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
const SourceName = "FDA 510(k)"

const (
	providerName    = "fda"
	dateParamLayout = "20060102"
	defaultPageSize = 100
)

// Client queries the openFDA 510(k) endpoint.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	logger   logging.Logger
}

// NewClient builds an FDA client from the endpoint configuration.
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

// Fetch returns clearances decided within the lookback window ending at now,
// optionally narrowed to devices matching the query term.
func (c *Client) Fetch(ctx context.Context, now time.Time, q providers.Query) ([]intel.Record, error) {
	search := fmt.Sprintf("decision_date:[%s+TO+%s]",
		now.AddDate(0, 0, -q.DaysBack).Format(dateParamLayout),
		now.Format(dateParamLayout))
	if q.Term != "" {
		search += fmt.Sprintf("+AND+openfda.device_name:%q", q.Term)
	}

	limit := q.Limit
	if limit <= 0 || limit > c.pageSize {
		limit = c.pageSize
	}

	params := url.Values{
		"search": {search},
		"limit":  {strconv.Itoa(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build fda request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "fda request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.New(errors.ErrCodeDataSourceRateLimited, "fda rate limited")
	}
	// openFDA answers 404 for windows with zero matches.
	if resp.StatusCode == http.StatusNotFound {
		return []intel.Record{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "fda request failed").
			WithDetail("status=" + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read fda response")
	}

	records := parseResults(body)
	c.logger.Debug("fda batch fetched",
		logging.String("term", q.Term),
		logging.Int("records", len(records)))
	return records, nil
}

func parseResults(body []byte) []intel.Record {
	results := gjson.GetBytes(body, "results")
	records := make([]intel.Record, 0, len(results.Array()))
	results.ForEach(func(_, item gjson.Result) bool {
		records = append(records, intel.Record{
			Source:          SourceName,
			Company:         stringOr(item.Get("applicant"), "Unknown"),
			DeviceName:      stringOr(item.Get("device_name"), "Unknown Device"),
			ProductCode:     stringOr(item.Get("product_code"), ""),
			DecisionDate:    stringOr(item.Get("decision_date"), intel.NotAvailable),
			Status:          "Approved",
			RegulatoryClass: stringOr(item.Get("device_class"), "Unknown"),
		})
		return true
	})
	return records
}

func stringOr(r gjson.Result, fallback string) string {
	if !r.Exists() {
		return fallback
	}
	return r.String()
}
