package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricepulse/compare-cli/internal/compare"
	"github.com/pricepulse/compare-cli/internal/model"
)

type stubService struct {
	report *compare.Report
	err    error
}

func (s *stubService) Compare(_ context.Context, query string) (*compare.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.report
	r.Searched = query
	return &r, nil
}

func TestRouter_Health(t *testing.T) {
	srv := httptest.NewServer(newRouter(&stubService{report: &compare.Report{}}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Compare(t *testing.T) {
	stub := &stubService{report: &compare.Report{
		Comparisons: []model.Comparison{{
			Left:       model.Record{Name: "iPhone 16 128GB", PriceValue: 79999},
			Right:      model.Record{Name: "Apple iPhone 16 (128 GB)", PriceValue: 78499},
			Score:      81,
			Difference: 1500,
			Cheaper:    model.CheaperRight,
		}},
		Sources:    map[string]compare.SourceStatus{"flipkart": {Records: 1}, "croma": {Records: 1}},
		DurationMs: 42,
	}}
	srv := httptest.NewServer(newRouter(stub))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/compare?q=iphone+16")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var report compare.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "iphone 16", report.Searched)
	require.Len(t, report.Comparisons, 1)
	assert.Equal(t, 1500, report.Comparisons[0].Difference)
}

func TestRouter_Compare_EmptyQuery(t *testing.T) {
	stub := &stubService{err: &compare.ValidationError{Msg: "query must not be empty"}}
	srv := httptest.NewServer(newRouter(stub))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/compare")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Compare_InternalError(t *testing.T) {
	stub := &stubService{err: errors.New("orchestrator exploded")}
	srv := httptest.NewServer(newRouter(stub))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/compare?q=tv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
