package restserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/chrissnell/laketemp/internal/simulate"
	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/internal/validation"
	"github.com/chrissnell/laketemp/pkg/config"
	"github.com/chrissnell/laketemp/pkg/responseformat"
)

// maxRequestBody bounds the size of a decoded request body.
const maxRequestBody = 32 << 20

// healthCheckTimeout bounds the storage health probe.
const healthCheckTimeout = 5 * time.Second

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrDomain),
		errors.Is(err, types.ErrDuplicateTimestamp):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrNotFound),
		errors.Is(err, storage.ErrRunNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.controller.logger.Errorf("error handling %s %s: %v", req.Method, req.URL.Path, err)
		message = "internal server error"
	}
	h.formatter.WriteError(w, req, status, message)
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error encoding response to %s: %v", req.URL.Path, err)
	}
}

func (h *Handlers) decode(w http.ResponseWriter, req *http.Request, v any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxRequestBody)
	if err := responseformat.DecodeRequest(req, v); err != nil {
		return fmt.Errorf("malformed request body: %v: %w", err, types.ErrInvalidInput)
	}
	return nil
}

// EstimateParameters handles POST /api/v1/parameters. The body holds lake
// characteristics; the response is the estimated parameter set.
func (h *Handlers) EstimateParameters(w http.ResponseWriter, req *http.Request) {
	var lake types.LakeCharacteristics
	if err := h.decode(w, req, &lake); err != nil {
		h.writeError(w, req, err)
		return
	}
	if err := normalizeLake(&lake); err != nil {
		h.writeError(w, req, err)
		return
	}

	params, err := h.controller.estimator.Estimate(lake)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, estimatedParameters(params))
}

// Simulate handles POST /api/v1/simulate.
func (h *Handlers) Simulate(w http.ResponseWriter, req *http.Request) {
	var body SimulateRequest
	if err := h.decode(w, req, &body); err != nil {
		h.writeError(w, req, err)
		return
	}

	periodicity, err := types.ParsePeriodicity(body.Periodicity)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	forcing, err := toForcing(body.Forcing)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	if err := forcing.Validate(); err != nil {
		h.writeError(w, req, err)
		return
	}

	lakeName, params, err := h.resolveParameters(body, forcing)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	series, err := simulate.Run(forcing, params, periodicity)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	resp := SimulateResponse{
		Lake:        lakeName,
		Periodicity: periodicity.String(),
		Parameters:  params,
		Series:      seriesRecords(series),
	}

	if h.controller.store != nil {
		run := &storage.Run{
			Lake:        lakeName,
			Periodicity: periodicity,
			Parameters:  params,
			Series:      series,
		}
		if err := h.controller.store.SaveRun(req.Context(), run); err != nil {
			h.writeError(w, req, fmt.Errorf("could not store run: %w", err))
			return
		}
		resp.RunID = run.ID.String()
	}

	h.write(w, req, http.StatusOK, resp)
}

// resolveParameters picks the parameter set of a simulation request and
// the lake name it is recorded under.
func (h *Handlers) resolveParameters(body SimulateRequest, forcing types.ForcingSeries) (string, types.ParameterSet, error) {
	switch {
	case body.Parameters != nil:
		name := body.LakeName
		if name == "" && body.Lake != nil {
			name = body.Lake.Name
		}
		return name, *body.Parameters, nil

	case body.Lake != nil:
		if err := normalizeLake(body.Lake); err != nil {
			return "", types.ParameterSet{}, err
		}
		params, err := h.controller.estimator.EstimateWithForcing(*body.Lake, forcing.Tair)
		return body.Lake.Name, params, err

	case body.LakeName != "":
		params, err := h.controller.configProvider.GetParameters(body.LakeName)
		if err == nil {
			return body.LakeName, *params, nil
		}
		if !errors.Is(err, config.ErrNotFound) {
			return "", types.ParameterSet{}, err
		}
		// Configured lakes without a parameter set are estimated.
		lake, err := h.controller.configProvider.GetLake(body.LakeName)
		if err != nil {
			return "", types.ParameterSet{}, err
		}
		p, err := h.controller.estimator.EstimateWithForcing(lake.LakeCharacteristics, forcing.Tair)
		return body.LakeName, p, err
	}
	return "", types.ParameterSet{}, fmt.Errorf("one of parameters, lake or lake_name is required: %w", types.ErrInvalidInput)
}

// Validate handles POST /api/v1/validate.
func (h *Handlers) Validate(w http.ResponseWriter, req *http.Request) {
	var body ValidateRequest
	if err := h.decode(w, req, &body); err != nil {
		h.writeError(w, req, err)
		return
	}

	tSim, vSim, err := toPoints(body.Simulated)
	if err != nil {
		h.writeError(w, req, fmt.Errorf("simulated %w", err))
		return
	}
	tObs, vObs, err := toPoints(body.Observed)
	if err != nil {
		h.writeError(w, req, fmt.Errorf("observed %w", err))
		return
	}

	result, err := validation.Compare(tSim, vSim, tObs, vObs)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, validationResponse(result))
}

// GetLakeParameters handles GET /api/v1/lakes/{name}/parameters.
func (h *Handlers) GetLakeParameters(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	params, err := h.controller.configProvider.GetParameters(name)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, LakeParametersResponse{Lake: name, Parameters: *params})
}

// GetRun handles GET /api/v1/runs/{id}.
func (h *Handlers) GetRun(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, "run storage is not configured")
		return
	}

	id, err := uuid.Parse(mux.Vars(req)["id"])
	if err != nil {
		h.writeError(w, req, fmt.Errorf("run id: %v: %w", err, types.ErrInvalidInput))
		return
	}

	run, err := h.controller.store.GetRun(req.Context(), id)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, runResponse(run))
}

// GetHealth handles GET /api/v1/health. A storage backend that fails its
// health check turns the response into 503.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{Status: "ok", Storage: "disabled"}

	if h.controller.store != nil {
		resp.Storage = "ok"
		if checker, ok := h.controller.store.(storage.HealthChecker); ok {
			ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
			defer cancel()
			if err := checker.CheckHealth(ctx); err != nil {
				h.controller.logger.Warnf("storage health check failed: %v", err)
				resp.Status = "degraded"
				resp.Storage = err.Error()
				h.write(w, req, http.StatusServiceUnavailable, resp)
				return
			}
		}
	}

	h.write(w, req, http.StatusOK, resp)
}
