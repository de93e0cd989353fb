package fda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/providers"
	"github.com/helix-insights/madison/pkg/errors"
)

var fetchNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

const clearancesBody = `{
  "results": [
    {
      "applicant": "Alcon Laboratories",
      "device_name": "AcrySof IQ Intraocular Lens",
      "product_code": "HQL",
      "decision_date": "2026-07-15",
      "device_class": "2"
    },
    {
      "device_name": "Surgical Forceps"
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ProviderEndpoint{
		BaseURL:  srv.URL,
		Timeout:  time.Second,
		RetryMax: 0,
		PageSize: 100,
	}, logging.NewNopLogger())
}

func TestFetchParsesClearances(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(clearancesBody))
	})

	records, err := client.Fetch(context.Background(), fetchNow, providers.Query{
		Term:     "intraocular lens",
		DaysBack: 365,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, `decision_date:[20250901+TO+20260901]+AND+openfda.device_name:"intraocular lens"`, gotQuery["search"][0])
	assert.Equal(t, "100", gotQuery["limit"][0])

	first := records[0]
	assert.Equal(t, SourceName, first.Source)
	assert.Equal(t, "Alcon Laboratories", first.Company)
	assert.Equal(t, "AcrySof IQ Intraocular Lens", first.DeviceName)
	assert.Equal(t, "HQL", first.ProductCode)
	assert.Equal(t, "2026-07-15", first.DecisionDate)
	assert.Equal(t, "Approved", first.Status)
	assert.Equal(t, "2", first.RegulatoryClass)

	second := records[1]
	assert.Equal(t, "Unknown", second.Company)
	assert.Equal(t, "Surgical Forceps", second.DeviceName)
	assert.Equal(t, "N/A", second.DecisionDate)
	assert.Equal(t, "Unknown", second.RegulatoryClass)
}

func TestFetchOmitsDeviceFilterWithoutTerm(t *testing.T) {
	var gotSearch string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`{"results": []}`))
	})

	records, err := client.Fetch(context.Background(), fetchNow, providers.Query{DaysBack: 30})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "decision_date:[20260802+TO+20260901]", gotSearch)
}

func TestFetchEmptyWindowIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// openFDA answers 404 when no documents match.
		w.WriteHeader(http.StatusNotFound)
	})

	records, err := client.Fetch(context.Background(), fetchNow, providers.Query{DaysBack: 1})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFetchRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Fetch(context.Background(), fetchNow, providers.Query{DaysBack: 1})
	require.Error(t, err)
	assert.True(t, errors.IsRateLimited(err))
}

func TestFetchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Fetch(context.Background(), fetchNow, providers.Query{DaysBack: 1})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDataSourceUnavailable, errors.CodeOf(err))
}

func TestFetchClampsLimitToPageSize(t *testing.T) {
	var gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"results": []}`))
	})

	_, err := client.Fetch(context.Background(), fetchNow, providers.Query{DaysBack: 1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)
}
