package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/internal/storage/memory"
	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/pkg/config"
)

const testConfig = `
lakes:
  - name: allos
    type: lake
    latitude: 44.233
    altitude: 2232
    zmax: 51
    surface: 528425
    volume: 9775853
    parameters:
      A: 6.2
      B: 1.007
      C: -0.007
      D: 0.51
      E: 0.24
      ALPHA: 0.07
      BETA: 0.13
      at_factor: 1
      sw_factor: 1
      mat: 8.375
  - name: serre-poncon
    type: reservoir
    latitude: 44.5
    altitude: 780
    zmax: 120
    surface: 28000000
    volume: 1270000000
`

var allosLake = map[string]any{
	"name":     "allos",
	"type":     "lake",
	"latitude": 44.233,
	"altitude": 2232,
	"zmax":     51,
	"surface":  528425,
	"volume":   9775853,
}

func newTestHandler(t *testing.T, store storage.RunStore) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "laketemp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg, config.NewYAMLProvider(path), config.ServerData{}, store, nil)
	require.NoError(t, err)
	return ctrl.Server.Handler
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func forcingRecords(n int) []ForcingRecord {
	start := time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)
	out := make([]ForcingRecord, n)
	for i := range out {
		out[i] = ForcingRecord{
			Date: start.AddDate(0, 0, i).Format(types.DateLayout),
			Tair: 5 + float64(i),
			SR:   100 + 10*float64(i),
		}
	}
	return out
}

func TestEstimateParameters(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/parameters", allosLake)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, 6.201919420753443, got["A"], 1e-9)
	assert.InDelta(t, 0.07068377016290643, got["ALPHA"], 1e-9)
	assert.InDelta(t, 0.24475669737191705, got["E"], 1e-9)
	assert.NotContains(t, got, "mat")
}

func TestEstimateParametersMsgPack(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/parameters?format=msgpack", allosLake)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-msgpack", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, 0.51, got["D"], 1e-12)
}

func TestEstimateParametersRejects(t *testing.T) {
	h := newTestHandler(t, nil)

	bad := map[string]any{}
	for k, v := range allosLake {
		bad[k] = v
	}
	bad["surface"] = 0
	rec := do(t, h, http.MethodPost, "/api/v1/parameters", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad["surface"] = 528425
	bad["type"] = "pond"
	rec = do(t, h, http.MethodPost, "/api/v1/parameters", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/parameters", map[string]any{"colour": "blue"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateStoresRun(t *testing.T) {
	h := newTestHandler(t, memory.New())

	params := types.ParameterSet{
		A: 6.2, B: 1.007, C: -0.007, D: 0.51, E: 0.24,
		Alpha: 0.07, Beta: 0.13, ATFactor: 1, SWFactor: 1, MAT: 8,
	}
	rec := do(t, h, http.MethodPost, "/api/v1/simulate", SimulateRequest{
		Parameters: &params,
		LakeName:   "test",
		Forcing:    forcingRecords(10),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "daily", resp.Periodicity)
	assert.Equal(t, "test", resp.Lake)
	require.Len(t, resp.Series, 10)
	assert.Equal(t, "2018-06-01", resp.Series[0].Date)
	for _, r := range resp.Series {
		require.NotNil(t, r.Tepi)
		require.NotNil(t, r.Thyp)
		assert.GreaterOrEqual(t, *r.Tepi, 0.0)
		assert.GreaterOrEqual(t, *r.Thyp, 4.0)
	}
	_, err := uuid.Parse(resp.RunID)
	require.NoError(t, err)

	rec = do(t, h, http.MethodGet, "/api/v1/runs/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var run RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, resp.RunID, run.ID)
	assert.Equal(t, params, run.Parameters)
	assert.Equal(t, resp.Series, run.Series)
}

func TestSimulateParameterSources(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("configured parameters", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/simulate", SimulateRequest{LakeName: "allos", Forcing: forcingRecords(5)})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp SimulateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 8.375, resp.Parameters.MAT)
		assert.Empty(t, resp.RunID)
	})

	t.Run("configured lake without parameters", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/simulate", SimulateRequest{LakeName: "serre-poncon", Forcing: forcingRecords(5)})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp SimulateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.InDelta(t, 7.0, resp.Parameters.MAT, 1e-12)
	})

	t.Run("lake characteristics", func(t *testing.T) {
		lake := types.LakeCharacteristics{
			Name: "allos", Type: "lake", Latitude: 44.233, Altitude: 2232,
			Zmax: 51, Surface: 528425, Volume: 9775853,
		}
		rec := do(t, h, http.MethodPost, "/api/v1/simulate?format=msgpack", SimulateRequest{
			Lake: &lake, Periodicity: "weekly", Forcing: forcingRecords(5),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SimulateResponse
		dec := msgpack.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
		dec.SetCustomStructTag("json")
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, "weekly", resp.Periodicity)
		assert.InDelta(t, 7.0, resp.Parameters.MAT, 1e-12)
		assert.Len(t, resp.Series, 5)
	})
}

func TestSimulateErrors(t *testing.T) {
	h := newTestHandler(t, nil)

	duplicated := forcingRecords(3)
	duplicated[2].Date = duplicated[1].Date

	tests := []struct {
		name string
		body SimulateRequest
		want int
	}{
		{name: "no parameter source", body: SimulateRequest{Forcing: forcingRecords(3)}, want: http.StatusBadRequest},
		{name: "unknown lake", body: SimulateRequest{LakeName: "annecy", Forcing: forcingRecords(3)}, want: http.StatusNotFound},
		{name: "empty forcing", body: SimulateRequest{LakeName: "allos"}, want: http.StatusBadRequest},
		{name: "dates not increasing", body: SimulateRequest{LakeName: "allos", Forcing: duplicated}, want: http.StatusBadRequest},
		{name: "bad periodicity", body: SimulateRequest{LakeName: "allos", Periodicity: "hourly", Forcing: forcingRecords(3)}, want: http.StatusBadRequest},
		{name: "invalid parameters", body: SimulateRequest{Parameters: &types.ParameterSet{Alpha: 2, Beta: 0.1}, Forcing: forcingRecords(3)}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/simulate", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func ptr(v float64) *float64 {
	return &v
}

func TestValidate(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/validate", ValidateRequest{
		Simulated: []PointRecord{
			{Date: "2018-06-01", Value: ptr(1)},
			{Date: "2018-06-02", Value: ptr(2)},
			{Date: "2018-06-03", Value: ptr(3)},
			{Date: "2018-06-04", Value: ptr(4)},
		},
		Observed: []PointRecord{
			{Date: "2018-06-01", Value: ptr(2)},
			{Date: "2018-06-02", Value: ptr(3)},
			{Date: "2018-06-03", Value: ptr(4)},
			{Date: "2018-06-04", Value: nil},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.N)
	require.NotNil(t, resp.ME)
	assert.InDelta(t, -1.0, *resp.ME, 1e-12)
	assert.InDelta(t, 1.0, *resp.MAE, 1e-12)
	assert.InDelta(t, 1.0, *resp.RMSE, 1e-12)
	assert.InDelta(t, 0.0, *resp.SD, 1e-12)
	assert.InDelta(t, 1.0, *resp.R, 1e-12)
}

func TestValidateNoOverlap(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/validate", ValidateRequest{
		Simulated: []PointRecord{{Date: "2018-06-01", Value: ptr(1)}},
		Observed:  []PointRecord{{Date: "2019-06-01", Value: ptr(1)}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"n":0,"sd":null,"r":null,"me":null,"mae":null,"rmse":null}`, rec.Body.String())
}

func TestValidateDuplicateTimestamp(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/validate", ValidateRequest{
		Simulated: []PointRecord{{Date: "2018-06-01", Value: ptr(1)}, {Date: "2018-06-01", Value: ptr(2)}},
		Observed:  []PointRecord{{Date: "2018-06-01", Value: ptr(1)}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/validate", ValidateRequest{
		Simulated: []PointRecord{{Date: "01/06/2018", Value: ptr(1)}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLakeParameters(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/lakes/allos/parameters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LakeParametersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "allos", resp.Lake)
	assert.Equal(t, 0.13, resp.Parameters.Beta)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/lakes/serre-poncon/parameters", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/lakes/annecy/parameters", nil).Code)
}

func TestGetRunErrors(t *testing.T) {
	withStore := newTestHandler(t, memory.New())
	assert.Equal(t, http.StatusNotFound, do(t, withStore, http.MethodGet, "/api/v1/runs/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, withStore, http.MethodGet, "/api/v1/runs/not-a-uuid", nil).Code)

	withoutStore := newTestHandler(t, nil)
	assert.Equal(t, http.StatusNotFound, do(t, withoutStore, http.MethodGet, "/api/v1/runs/"+uuid.NewString(), nil).Code)
}

type unhealthyStore struct {
	*memory.Store
}

func (unhealthyStore) CheckHealth(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestGetHealth(t *testing.T) {
	rec := do(t, newTestHandler(t, nil), http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"disabled"}`, rec.Body.String())

	rec = do(t, newTestHandler(t, memory.New()), http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"ok"}`, rec.Body.String())

	rec = do(t, newTestHandler(t, unhealthyStore{memory.New()}), http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","storage":"connection refused"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/parameters"},
		{http.MethodGet, "/api/v1/simulate"},
		{http.MethodGet, "/api/v1/validate"},
		{http.MethodPut, "/api/v1/simulate"},
		{http.MethodPost, "/api/v1/health"},
		{http.MethodDelete, "/api/v1/lakes/allos/parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestHandler(t, nil), http.MethodGet, "/api/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
