package services

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/metrics"
	"alfredoptarigan/career-copilot/internal/models"
)

type ResultStatus string

const (
	ResultIdle    ResultStatus = "idle"
	ResultPending ResultStatus = "pending"
	ResultSuccess ResultStatus = "success"
	ResultFailure ResultStatus = "failure"
)

// Result is the outcome slot of a workflow. Payload is only meaningful on
// success; Err and Message only on failure.
type Result[T any] struct {
	Status       ResultStatus
	Payload      T
	Err          error
	Message      string
	SubmissionID uuid.UUID
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	view := struct {
		Status       ResultStatus `json:"status"`
		Payload      any          `json:"payload,omitempty"`
		Message      string       `json:"message,omitempty"`
		ErrorKind    string       `json:"error_kind,omitempty"`
		SubmissionID string       `json:"submission_id,omitempty"`
	}{
		Status:    r.Status,
		Message:   r.Message,
		ErrorKind: ErrorKind(r.Err),
	}
	if r.Status == ResultSuccess {
		view.Payload = r.Payload
	}
	if r.SubmissionID != uuid.Nil {
		view.SubmissionID = r.SubmissionID.String()
	}
	return json.Marshal(view)
}

// WorkflowInput is a copy of a controller's input taken at submit time.
type WorkflowInput struct {
	Fields map[string]string
	File   RawFile
}

// WorkflowState is a read-only copy of a controller for presentation.
type WorkflowState[T any] struct {
	Fields   map[string]string `json:"fields,omitempty"`
	FileName string            `json:"file_name,omitempty"`
	Loading  bool              `json:"loading"`
	Result   Result[T]         `json:"result"`
}

// Definition binds the generic controller to one workflow.
type Definition[T any] struct {
	Workflow       models.Workflow
	Endpoint       Endpoint
	FailureMessage string
	RequiresFile   bool
	BuildRequest   func(ctx context.Context, in WorkflowInput) (any, error)
	DecodeResult   func(raw json.RawMessage) (T, error)
}

// SubmissionRecorder keeps the session history of submit cycles.
type SubmissionRecorder interface {
	Queued(workflow models.Workflow, endpoint Endpoint) uuid.UUID
	Processing(id uuid.UUID)
	Completed(id uuid.UUID)
	Failed(id uuid.UUID, message string)
}

type nopRecorder struct{}

func (nopRecorder) Queued(models.Workflow, Endpoint) uuid.UUID { return uuid.New() }
func (nopRecorder) Processing(uuid.UUID)                       {}
func (nopRecorder) Completed(uuid.UUID)                        {}
func (nopRecorder) Failed(uuid.UUID, string)                   {}

type controllerOptions struct {
	recorder SubmissionRecorder
	logger   zerolog.Logger
}

type ControllerOption func(*controllerOptions)

func WithRecorder(recorder SubmissionRecorder) ControllerOption {
	return func(o *controllerOptions) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

func WithControllerLogger(logger zerolog.Logger) ControllerOption {
	return func(o *controllerOptions) {
		o.logger = logger
	}
}

// Controller owns one workflow's input, loading flag and result. The loading
// flag admits at most one submission at a time; the mutex only protects the
// fields.
type Controller[T any] struct {
	def        Definition[T]
	dispatcher Dispatcher
	recorder   SubmissionRecorder
	logger     zerolog.Logger

	mu      sync.Mutex
	fields  map[string]string
	file    RawFile
	loading bool
	result  Result[T]

	inflight sync.WaitGroup
}

func NewController[T any](def Definition[T], dispatcher Dispatcher, opts ...ControllerOption) *Controller[T] {
	o := controllerOptions{recorder: nopRecorder{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		def:        def,
		dispatcher: dispatcher,
		recorder:   o.recorder,
		logger:     o.logger.With().Str("workflow", string(def.Workflow)).Logger(),
		fields:     make(map[string]string),
		result:     Result[T]{Status: ResultIdle},
	}
}

func (c *Controller[T]) Workflow() models.Workflow {
	return c.def.Workflow
}

// UpdateField stores a form value as given. Validation belongs to the backend.
func (c *Controller[T]) UpdateField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields[name] = value
}

// SelectFile replaces the file to submit; nil clears the selection.
func (c *Controller[T]) SelectFile(file RawFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = file
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller[T]) Result() Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller[T]) State() WorkflowState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := WorkflowState[T]{
		Loading: c.loading,
		Result:  c.result,
	}
	if len(c.fields) > 0 {
		state.Fields = maps.Clone(c.fields)
	}
	if c.file != nil {
		state.FileName = c.file.Name()
	}
	return state
}

// Start admits a submission and runs it in the background. It returns
// ErrSubmissionInFlight without touching any state while a previous
// submission is loading. The request is detached from ctx cancellation: once
// dispatched it runs to completion and its result is always stored.
func (c *Controller[T]) Start(ctx context.Context) (<-chan Result[T], error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		metrics.IncWorkflowSubmission(string(c.def.Workflow), "rejected")
		return nil, ErrSubmissionInFlight
	}
	if c.def.RequiresFile && c.file == nil {
		c.mu.Unlock()
		return nil, ErrNoFileSelected
	}

	input := WorkflowInput{Fields: maps.Clone(c.fields), File: c.file}
	id := c.recorder.Queued(c.def.Workflow, c.def.Endpoint)
	c.loading = true
	c.result = Result[T]{Status: ResultPending, SubmissionID: id}
	c.inflight.Add(1)
	c.mu.Unlock()

	done := make(chan Result[T], 1)
	go func() {
		defer c.inflight.Done()
		defer close(done)
		done <- c.run(context.WithoutCancel(ctx), id, input)
	}()
	return done, nil
}

// Submit starts a submission and waits for its result. If ctx ends first the
// request keeps running and its result lands in the controller later.
func (c *Controller[T]) Submit(ctx context.Context) (Result[T], error) {
	done, err := c.Start(ctx)
	if err != nil {
		return Result[T]{}, err
	}
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return c.Result(), ctx.Err()
	}
}

// Wait blocks until every started submission has stored its result.
func (c *Controller[T]) Wait() {
	c.inflight.Wait()
}

func (c *Controller[T]) run(ctx context.Context, id uuid.UUID, input WorkflowInput) (res Result[T]) {
	log := c.logger.With().Str("submission_id", id.String()).Logger()

	defer func() {
		if r := recover(); r != nil {
			res = c.failure(id, errors.Newf("workflow panicked: %v", r))
		}
		c.finish(res, log)
	}()

	c.recorder.Processing(id)

	body, err := c.def.BuildRequest(ctx, input)
	if err != nil {
		return c.failure(id, err)
	}

	raw, err := c.dispatcher.Send(ctx, c.def.Endpoint, body)
	if err != nil {
		return c.failure(id, err)
	}

	payload, err := c.def.DecodeResult(raw)
	if err != nil {
		return c.failure(id, err)
	}

	return Result[T]{Status: ResultSuccess, Payload: payload, SubmissionID: id}
}

func (c *Controller[T]) failure(id uuid.UUID, err error) Result[T] {
	return Result[T]{
		Status:       ResultFailure,
		Err:          errors.WithHint(err, c.def.FailureMessage),
		Message:      c.def.FailureMessage,
		SubmissionID: id,
	}
}

// finish stores the result and clears loading on every path.
func (c *Controller[T]) finish(res Result[T], log zerolog.Logger) {
	c.mu.Lock()
	c.result = res
	c.loading = false
	c.mu.Unlock()

	if res.Status == ResultFailure {
		c.recorder.Failed(res.SubmissionID, fmt.Sprintf("%s: %v", res.Message, res.Err))
		metrics.IncWorkflowSubmission(string(c.def.Workflow), "failure")
		log.Warn().Err(res.Err).Str("kind", ErrorKind(res.Err)).Msg("workflow failed")
		return
	}
	c.recorder.Completed(res.SubmissionID)
	metrics.IncWorkflowSubmission(string(c.def.Workflow), "success")
	log.Info().Msg("workflow completed")
}
