package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/mcp"
	"github.com/Aki894/mcp-RxNav/model"
	"github.com/Aki894/mcp-RxNav/rag"
	"github.com/Aki894/mcp-RxNav/rxnav"
	"github.com/Aki894/mcp-RxNav/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

type stubResolver struct {
	err error
}

func (s stubResolver) SearchDrugs(_ context.Context, name string, _ int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "243670", Name: name + " 81 MG Oral Tablet", TTY: "SCD"}}, s.err
}

func (s stubResolver) GenericNames(context.Context, string, int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "1191", Name: "aspirin", TTY: "IN"}}, s.err
}

func (s stubResolver) BrandNames(context.Context, string, int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "215568", Name: "Bayer Aspirin", TTY: "BN"}}, s.err
}

func (s stubResolver) ATCClasses(_ context.Context, name string, _ int) ([]rxnav.DrugClass, error) {
	return []rxnav.DrugClass{{ClassID: "N02BA", ClassName: "Salicylic acid and derivatives", ClassType: "ATC1-4", DrugName: name}}, s.err
}

func (s stubResolver) Ingredients(context.Context, string, int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "1191", Name: "aspirin", TTY: "IN"}}, s.err
}

func testConfig() *appconfig.AppConfig {
	cfg := appconfig.Default()
	cfg.ApiKey = testKey
	return cfg
}

func testService(t *testing.T, resolver rxnav.Resolver) *service.DrugService {
	t.Helper()
	pipeline, err := rag.NewPipeline(rag.DefaultPipelineConfig(), nil)
	require.NoError(t, err)
	return service.NewDrugService(resolver, pipeline)
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/rag/summary", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testKey)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSummaryController(t *testing.T) {
	route := func(t *testing.T, resolver rxnav.Resolver, cfg *appconfig.AppConfig) http.HandlerFunc {
		routes := ProvideSummaryController(testService(t, resolver), cfg).Routes()
		require.Len(t, routes, 1)
		assert.Equal(t, "/rag/summary", routes[0].Pattern)
		return routes[0].Handler
	}

	t.Run("ShouldReturnRankedSummary", func(t *testing.T) {
		rec := post(t, route(t, stubResolver{}, testConfig()), `{"drug":"aspirin","query":"ATC classification","top_k":2}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		var res model.SummaryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Len(t, res.TopChunks, 2)
		assert.Equal(t, service.LabelATC, res.TopChunks[0].Label)
		assert.Len(t, res.Citations, 2)
		assert.Equal(t, rag.DefaultSource, res.Source)
	})

	t.Run("ShouldReturnSentinelWhenEveryLookupFails", func(t *testing.T) {
		rec := post(t, route(t, stubResolver{err: errors.New("boom")}, testConfig()), `{"drug":"aspirin"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var res model.SummaryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, rag.NoInformationFound, res.Summary)
		assert.Empty(t, res.TopChunks)
		assert.Empty(t, res.Citations)
	})

	t.Run("ShouldRejectMissingDrug", func(t *testing.T) {
		rec := post(t, route(t, stubResolver{}, testConfig()), `{"query":"brand"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var res model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "InvalidArgument", res.Code)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("ShouldRejectMalformedJSON", func(t *testing.T) {
		rec := post(t, route(t, stubResolver{}, testConfig()), `{"drug":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ShouldRejectTopKAboveTen", func(t *testing.T) {
		rec := post(t, route(t, stubResolver{}, testConfig()), `{"drug":"aspirin","top_k":11}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ShouldReportDisabledSummary", func(t *testing.T) {
		cfg := testConfig()
		cfg.EnableRagSummary = false
		rec := post(t, route(t, stubResolver{}, cfg), `{"drug":"aspirin"}`)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("ShouldRequireAPIKey", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rag/summary", strings.NewReader(`{"drug":"aspirin"}`))
		rec := httptest.NewRecorder()
		route(t, stubResolver{}, testConfig())(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMetadataController(t *testing.T) {
	routes := ProvideMetadataController(testConfig()).Routes()
	require.Len(t, routes, 1)

	req := httptest.NewRequest(http.MethodGet, "/metadata/tools", nil)
	req.Header.Set("X-API-Key", testKey)
	rec := httptest.NewRecorder()
	routes[0].Handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res toolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, mcp.ServerName, res.Server)
	assert.Equal(t, mcp.Catalog(true), res.Tools)
}

func TestMetricsController(t *testing.T) {
	routes := ProvideMetricsController().Routes()
	require.Len(t, routes, 1)

	rec := httptest.NewRecorder()
	routes[0].Handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDisclaimerController(t *testing.T) {
	routes := ProvideDisclaimerController(testConfig()).Routes()
	require.Len(t, routes, 1)

	rec := httptest.NewRecorder()
	routes[0].Handler(rec, httptest.NewRequest(http.MethodGet, "/disclaimer", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), rag.DefaultSource)
}

func TestMCPControllerRoutes(t *testing.T) {
	srv := mcp.NewServer(testService(t, stubResolver{}), "test", true)
	routes := ProvideMCPController(srv, testConfig()).Routes()

	methods := make([]string, 0, len(routes))
	for _, r := range routes {
		assert.Equal(t, "/mcp", r.Pattern)
		methods = append(methods, r.Method)
	}
	assert.ElementsMatch(t, []string{http.MethodPost, http.MethodGet, http.MethodDelete}, methods)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	routes[0].Handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	_, err := testService(t, stubResolver{}).GenericNames(context.Background(), service.LookupRequest{})
	require.Error(t, err)
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
