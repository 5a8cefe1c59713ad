package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carevolve/triage-rl/agent"
	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/env"
	"github.com/carevolve/triage-rl/types"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dataset, pipeline, err := data.LoadSample()
	if err != nil {
		t.Fatalf("loading sample cohort failed: %v", err)
	}
	a := agent.New(agent.Config{
		StateDim:  data.FeatureDim,
		ActionDim: types.NumActions,
		HiddenDim: 16,
		Seed:      5,
	})
	environment := env.New(env.NewDatasetSampler(dataset, 5), env.DefaultRewardTable())
	return New(a, pipeline, environment, 4)
}

const patientJSON = `{
	"age": 74,
	"gender": "F",
	"diastolic_bp": 62,
	"heart_rate": 128,
	"mean_bp": 75,
	"resp_rate": 22,
	"spo2": 92,
	"sys_bp": 118,
	"temperature": 98.2,
	"admission_type": "EMERGENCY"
}`

func TestPredictEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(patientJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp DecisionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Recommendation == "" {
		t.Errorf("empty recommendation")
	}
	if len(resp.ActionProbabilities) != types.NumActions {
		t.Errorf("got %d action probabilities, want %d", len(resp.ActionProbabilities), types.NumActions)
	}
	sum := 0.0
	for _, p := range resp.ActionProbabilities {
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("probabilities sum to %f, want 1", sum)
	}
}

func TestPredictRejectsMalformedBody(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"age": 74}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTrainAndMetricsEndpoints(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/train", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("train status = %d, body %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	var m types.Metrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding metrics: %v", err)
	}
	if m.Episodes != 4 || m.Updates != 1 {
		t.Errorf("metrics after one training batch = %+v", m)
	}
}
