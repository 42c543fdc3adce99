package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/copyleftdev/HIVE/internal/config"
	"github.com/copyleftdev/HIVE/internal/errors"
	"github.com/copyleftdev/HIVE/internal/logging"
	"github.com/copyleftdev/HIVE/internal/optimization"
	"github.com/copyleftdev/HIVE/internal/optimization/swarm"
)

// Logger is the logging interface used by the server, satisfied by
// *logging.Logger.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Job tracks one asynchronous optimization run. Access is guarded by the
// server's job mutex.
type Job struct {
	ID          string
	Algorithm   string
	Objective   string
	Status      string // "pending", "running", "completed", "failed", "cancelled"
	StartTime   time.Time
	EndTime     *time.Time
	LastUpdated time.Time

	// CurrentBest is the driver's latest progress snapshot. The engine
	// itself is never read outside the run goroutine; handlers see only
	// snapshots published under the job mutex.
	CurrentBest *optimization.Solution
	Result      *optimization.Result
	Err         string

	cancel context.CancelFunc
}

// Server exposes the swarm engines over HTTP and JSON-RPC 2.0: start a job,
// poll its status and convergence curve, cancel it.
type Server struct {
	cfg    *config.Config
	logger Logger

	jobs   map[string]*Job
	jobsMu sync.RWMutex
}

// NewServer creates a server instance.
func NewServer(cfg *config.Config, logger Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		jobs:   make(map[string]*Job),
	}
}

// RegisterRoutes mounts the API on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/optimization/{id}", s.handleCancel)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// optimizeRequest is the payload accepted by POST /api/v1/optimize and the
// optimization.start RPC method.
type optimizeRequest struct {
	// Algorithm names the engine: pso, gwo, woa, genetic, aco, de.
	Algorithm string `json:"algorithm"`
	// Objective names a benchmark function: sphere, rosenbrock, rastrigin,
	// ackley, griewank.
	Objective string `json:"objective"`
	// Bounds is one [min, max] pair per dimension.
	Bounds [][]float64 `json:"bounds"`
	// PopulationSize and MaxIterations fall back to the configured defaults.
	PopulationSize int `json:"population_size,omitempty"`
	MaxIterations  int `json:"max_iterations,omitempty"`
	// TargetFitness optionally stops the run early.
	TargetFitness *float64 `json:"target_fitness,omitempty"`
	// Params carries algorithm hyperparameters (see swarm.New).
	Params map[string]interface{} `json:"params,omitempty"`
}

// startJob validates the request, constructs the engine through the factory,
// and launches the driver loop in a goroutine.
func (s *Server) startJob(req optimizeRequest) (*Job, error) {
	if req.Algorithm == "" {
		return nil, fmt.Errorf("algorithm is required")
	}
	if req.Objective == "" {
		return nil, fmt.Errorf("objective is required")
	}
	if len(req.Bounds) == 0 {
		return nil, fmt.Errorf("bounds are required")
	}

	bounds := make([]optimization.Bound, len(req.Bounds))
	for i, b := range req.Bounds {
		if len(b) != 2 {
			return nil, fmt.Errorf("invalid bounds format, expected [[min1, max1], [min2, max2], ...]")
		}
		bounds[i] = optimization.Bound{Min: b[0], Max: b[1]}
	}

	fn, err := optimization.BenchmarkByName(req.Objective)
	if err != nil {
		return nil, err
	}

	engine, err := swarm.New(req.Algorithm, req.Params)
	if err != nil {
		return nil, err
	}
	if w, ok := engine.(interface{ SetEvalWorkers(int) }); ok {
		w.SetEvalWorkers(s.cfg.Optimization.EvalWorkers)
	}

	popSize := req.PopulationSize
	if popSize <= 0 {
		popSize = s.cfg.Optimization.DefaultPopulation
	}
	if err := engine.Initialize(popSize, len(bounds), bounds); err != nil {
		return nil, err
	}

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = s.cfg.Optimization.DefaultIterations
	}
	driverCfg := optimization.DefaultDriverConfig()
	driverCfg.MaxIterations = maxIter
	driverCfg.StallLimit = s.cfg.Optimization.StallLimit
	driverCfg.LogEvery = 10
	if req.TargetFitness != nil {
		driverCfg.TargetFitness = *req.TargetFitness
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:          fmt.Sprintf("opt_%d", time.Now().UnixNano()),
		Algorithm:   req.Algorithm,
		Objective:   req.Objective,
		Status:      "pending",
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		cancel:      cancel,
	}
	driverCfg.OnGeneration = func(iteration int, best optimization.Solution) {
		s.jobsMu.Lock()
		job.CurrentBest = &best
		job.LastUpdated = time.Now()
		s.jobsMu.Unlock()
	}

	driver, err := optimization.NewDriver(driverCfg, logging.NewZapLogger(s.logger.WithFields(nil)))
	if err != nil {
		cancel()
		return nil, err
	}

	s.jobsMu.Lock()
	s.jobs[job.ID] = job
	s.jobsMu.Unlock()

	jobsStarted.WithLabelValues(req.Algorithm).Inc()
	go s.runJob(ctx, job, driver, engine, fn)

	return job, nil
}

// runJob executes the driver loop and records the outcome. The engine is
// owned by this goroutine for the whole run.
func (s *Server) runJob(ctx context.Context, job *Job, driver *optimization.Driver, engine optimization.Algorithm, fn optimization.FitnessFunc) {
	s.jobsMu.Lock()
	if job.Status == "cancelled" {
		s.jobsMu.Unlock()
		return
	}
	job.Status = "running"
	job.LastUpdated = time.Now()
	s.jobsMu.Unlock()

	result, err := driver.Run(ctx, engine, fn)

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if job.Status == "cancelled" {
		// The partial result is still worth keeping.
		job.Result = result
		jobsFinished.WithLabelValues(job.Algorithm, "cancelled").Inc()
		return
	}

	switch {
	case err == context.Canceled:
		job.Status = "cancelled"
		job.Result = result
		jobsFinished.WithLabelValues(job.Algorithm, "cancelled").Inc()
	case err != nil:
		wrapped := errors.Wrap(err, "optimization run failed").
			WithComponent("server").
			WithOperation("runJob")
		s.logger.Error("Optimization failed", map[string]interface{}{
			"optimization_id": job.ID,
			"error":           wrapped.Error(),
			"stack":           wrapped.StackTrace(),
		})
		job.Status = "failed"
		job.Err = err.Error()
		jobsFinished.WithLabelValues(job.Algorithm, "failed").Inc()
	default:
		job.Status = "completed"
		job.Result = result
		jobsFinished.WithLabelValues(job.Algorithm, "completed").Inc()
		jobIterations.Observe(float64(result.Iterations))
		jobBestFitness.Observe(result.BestFitness)
		s.logger.Info("Optimization completed", map[string]interface{}{
			"optimization_id": job.ID,
			"algorithm":       job.Algorithm,
			"iterations":      result.Iterations,
			"best_fitness":    result.BestFitness,
		})
	}

	now := time.Now()
	job.EndTime = &now
	job.LastUpdated = now
}

// jobStatus renders a job for API responses. Caller holds at least a read
// lock.
func (s *Server) jobStatus(job *Job) map[string]interface{} {
	response := map[string]interface{}{
		"optimization_id": job.ID,
		"algorithm":       job.Algorithm,
		"objective":       job.Objective,
		"status":          job.Status,
		"start_time":      job.StartTime.Format(time.RFC3339),
		"last_update":     job.LastUpdated.Format(time.RFC3339),
	}
	if job.EndTime != nil {
		response["end_time"] = job.EndTime.Format(time.RFC3339)
	}
	if job.Err != "" {
		response["error"] = job.Err
	}
	if job.Result != nil {
		response["result"] = map[string]interface{}{
			"best_position": job.Result.BestPosition,
			"best_fitness":  job.Result.BestFitness,
			"convergence":   job.Result.Convergence,
			"iterations":    job.Result.Iterations,
		}
	} else if job.CurrentBest != nil {
		response["current_best"] = map[string]interface{}{
			"position": job.CurrentBest.Position,
			"fitness":  job.CurrentBest.Fitness,
		}
	}
	return response
}

// cancelJob transitions a job to cancelled if it is not already terminal.
func (s *Server) cancelJob(id string) error {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("optimization not found")
	}

	switch job.Status {
	case "completed", "failed", "cancelled":
		return fmt.Errorf("cannot cancel optimization with status: %s", job.Status)
	}

	if job.cancel != nil {
		job.cancel()
	}

	job.Status = "cancelled"
	now := time.Now()
	job.EndTime = &now
	job.LastUpdated = now

	s.logger.Info("Optimization cancelled", map[string]interface{}{
		"optimization_id": id,
	})
	return nil
}

// handleOptimize handles POST /api/v1/optimize.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	job, err := s.startJob(req)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		logging.FromContext(r.Context()).Warn("Rejected optimization request", map[string]interface{}{
			"reason": err.Error(),
		})
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"optimization_id": job.ID,
		"status":          job.Status,
	})
}

// handleStatus handles GET /api/v1/status/{id}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing optimization ID", http.StatusBadRequest)
		return
	}

	s.jobsMu.RLock()
	job, exists := s.jobs[id]
	var response map[string]interface{}
	if exists {
		response = s.jobStatus(job)
	}
	s.jobsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "optimization not found"})
		return
	}
	json.NewEncoder(w).Encode(response)
}

// handleCancel handles DELETE /api/v1/optimization/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing optimization ID", http.StatusBadRequest)
		return
	}

	err := s.cancelJob(id)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "cancellation requested"})
}

// handleJSONRPC handles JSON-RPC 2.0 requests on /rpc.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string        `json:"jsonrpc"`
		ID      interface{}   `json:"id"`
		Method  string        `json:"method"`
		Params  []interface{} `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, -32700, "Parse error", nil)
		return
	}
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, -32600, "Invalid Request", nil)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "optimization.start":
		result, err = s.rpcStart(request.Params)
	case "optimization.status":
		result, err = s.rpcStatus(request.Params)
	case "optimization.cancel":
		err = s.rpcCancel(request.Params)
	default:
		s.respondWithError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, -32000, err.Error(), request.ID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	})
}

// rpcParams extracts the first positional parameter as an object.
func rpcParams(params []interface{}) (map[string]interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing required parameters")
	}
	m, ok := params[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid parameter format, expected object")
	}
	return m, nil
}

// rpcStart handles the optimization.start method.
func (s *Server) rpcStart(params []interface{}) (interface{}, error) {
	m, err := rpcParams(params)
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so the RPC payload shares the HTTP
	// request's decoding rules.
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var req optimizeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}

	job, err := s.startJob(req)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"optimization_id": job.ID,
		"status":          job.Status,
	}, nil
}

// rpcStatus handles the optimization.status method.
func (s *Server) rpcStatus(params []interface{}) (interface{}, error) {
	m, err := rpcParams(params)
	if err != nil {
		return nil, err
	}
	id, _ := m["optimization_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("optimization_id is required")
	}

	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return nil, fmt.Errorf("optimization not found")
	}
	return s.jobStatus(job), nil
}

// rpcCancel handles the optimization.cancel method.
func (s *Server) rpcCancel(params []interface{}) error {
	m, err := rpcParams(params)
	if err != nil {
		return err
	}
	id, _ := m["optimization_id"].(string)
	if id == "" {
		return fmt.Errorf("optimization_id is required")
	}
	return s.cancelJob(id)
}

// respondWithError sends a JSON-RPC 2.0 error response.
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error", map[string]interface{}{
		"status":  code,
		"message": message,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	})
}

// Close cancels every running job.
func (s *Server) Close() error {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	for _, job := range s.jobs {
		if job.cancel != nil {
			job.cancel()
		}
	}
	return nil
}
