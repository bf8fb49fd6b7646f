package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadelab/contagion/pkg/api"
	"github.com/cascadelab/contagion/pkg/contagion"
	"github.com/cascadelab/contagion/pkg/export"
	"github.com/cascadelab/contagion/pkg/logging"
	"github.com/cascadelab/contagion/pkg/metrics"
	"github.com/cascadelab/contagion/pkg/scenario"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := api.NewServer(logging.NewNopLogger(), metrics.NewRegistry(), 0)
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestCompleteAnalysisWorkflow walks the full user journey: generate a
// network over the API, shock it, rank it, then archive the result to
// disk and read it back.
func TestCompleteAnalysisWorkflow(t *testing.T) {
	server := startTestServer(t)
	baseURL := server.URL

	t.Log("Step 1: Generating a synthetic network...")
	resp := post(t, baseURL+"/generate", api.GenerateRequest{Entities: 12, CoreSize: 3, Seed: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var generated api.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&generated))
	assert.Len(t, generated.Entities, 12)
	assert.NotEmpty(t, generated.Obligations)

	t.Log("Step 2: Shocking the first core entity...")
	resp = post(t, baseURL+"/cascade", api.CascadeRequest{
		Entities:      generated.Entities,
		Obligations:   generated.Obligations,
		InitialFailed: []string{generated.Entities[0].ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cascade api.CascadeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cascade))
	require.NotNil(t, cascade.Result)
	assert.NotEmpty(t, cascade.RunID)
	assert.Contains(t, cascade.Result.Failed, generated.Entities[0].ID)
	assert.Empty(t, cascade.Result.Steps[len(cascade.Result.Steps)-1].Failed,
		"trace must end with the confirmation step")

	t.Log("Step 3: Ranking criticality...")
	resp = post(t, baseURL+"/criticality", api.CriticalityRequest{
		Entities:    generated.Entities,
		Obligations: generated.Obligations,
		TopK:        5,
		Workers:     4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var criticality api.CriticalityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&criticality))
	require.NotNil(t, criticality.Report)
	assert.Equal(t, 12, criticality.Report.Runs)
	assert.Len(t, criticality.Report.Impacts, 5)

	t.Log("Step 4: Archiving the cascade result...")
	archive := export.NewCascadeArchive(cascade.Result)
	path := filepath.Join(t.TempDir(), "run.ctgn")
	require.NoError(t, export.WriteFile(path, archive))

	decoded, err := export.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, archive.RunID, decoded.RunID)
	assert.Equal(t, cascade.Result.Failed, decoded.Cascade.Failed)
}

// TestScenarioFileToAPIConsistency verifies the scenario loader and the
// API agree on the same network.
func TestScenarioFileToAPIConsistency(t *testing.T) {
	server := startTestServer(t)

	doc := []byte(`
name: consistency check
entities:
  - id: A
    capital: 100
    buffer: 20
  - id: B
    capital: 50
    buffer: 40
  - id: C
    capital: 30
    buffer: 10
obligations:
  - from: A
    to: B
    amount: 70
initial_failed: [A]
`)

	s, err := scenario.Parse(doc)
	require.NoError(t, err)

	net, err := s.Network()
	require.NoError(t, err)

	local, err := contagion.Cascade(net, s.InitialFailed, s.CascadeOptions())
	require.NoError(t, err)

	entities := make([]contagion.Entity, 0, net.EntityCount())
	for _, id := range net.EntityIDs() {
		e, ok := net.Entity(id)
		require.True(t, ok)
		entities = append(entities, e)
	}

	resp := post(t, server.URL+"/cascade", api.CascadeRequest{
		Entities:      entities,
		Obligations:   net.Obligations(),
		InitialFailed: s.InitialFailed,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var remote api.CascadeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&remote))
	assert.Equal(t, local.Failed, remote.Result.Failed)
	assert.Equal(t, len(local.Steps), len(remote.Result.Steps))
}
