package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-copilot/internal/models"
)

// gatedDispatcher holds each endpoint's response until its gate is closed.
type gatedDispatcher struct {
	bodies  map[Endpoint]string
	gates   map[Endpoint]chan struct{}
	entered chan Endpoint
}

func newGatedDispatcher() *gatedDispatcher {
	return &gatedDispatcher{
		bodies: map[Endpoint]string{
			EndpointLogin:     `{}`,
			EndpointInterview: `{"questions":[{"q":"Q1","a":"A1"}]}`,
			EndpointResume:    `{"pdf_url":"https://cdn/r.pdf"}`,
			EndpointVerify:    `{"is_valid_document":false,"credibility_score":12,"document_type":"Unknown","reason":"blurry"}`,
		},
		gates:   map[Endpoint]chan struct{}{},
		entered: make(chan Endpoint, 8),
	}
}

func (g *gatedDispatcher) hold(endpoint Endpoint) chan struct{} {
	ch := make(chan struct{})
	g.gates[endpoint] = ch
	return ch
}

func (g *gatedDispatcher) Send(ctx context.Context, endpoint Endpoint, body any) (json.RawMessage, error) {
	g.entered <- endpoint
	if gate, ok := g.gates[endpoint]; ok {
		<-gate
	}
	return Normalize(json.RawMessage(g.bodies[endpoint]))
}

func newTestOrchestrator(t *testing.T, d Dispatcher, login bool) *Orchestrator {
	t.Helper()
	frames := NewFrameBuffer()
	frames.Update(testFrame)
	immediate := func(_ time.Duration, f func()) { f() }

	o := NewOrchestrator(
		NewSessionGate(frames, d, time.Second, WithScheduler(immediate)),
		NewInterviewController(d),
		NewResumeController(d),
		NewVerifyController(d, NewEncoder()),
	)
	if login {
		require.NoError(t, o.Login(context.Background()))
		require.True(t, o.Gate().Authenticated())
	}
	return o
}

func TestOrchestratorRequiresSession(t *testing.T) {
	o := newTestOrchestrator(t, newFakeDispatcher(respondJSON(`{}`)), false)

	assert.ErrorIs(t, o.SelectTab(models.WorkflowResume), ErrNotAuthenticated)
	assert.ErrorIs(t, o.UpdateField(FieldRole, "x"), ErrNotAuthenticated)
	assert.ErrorIs(t, o.SelectFile(MemoryFile{FileName: "a.png"}), ErrNotAuthenticated)
	_, _, err := o.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	snap := o.Snapshot()
	assert.False(t, snap.Session.Authenticated)
	assert.Equal(t, models.WorkflowInterview, snap.ActiveTab)
}

func TestOrchestratorRoutesByTab(t *testing.T) {
	d := newFakeDispatcher(respondJSON(`{}`))
	o := newTestOrchestrator(t, d, true)

	require.NoError(t, o.UpdateField(FieldRole, "SRE"))
	assert.ErrorIs(t, o.SelectFile(MemoryFile{FileName: "a.png"}), ErrActionUnavailable)

	require.NoError(t, o.SelectTab(models.WorkflowResume))
	require.NoError(t, o.UpdateField(FieldName, "Jane"))

	require.NoError(t, o.SelectTab(models.WorkflowVerify))
	assert.ErrorIs(t, o.UpdateField(FieldName, "x"), ErrActionUnavailable)
	require.NoError(t, o.SelectFile(MemoryFile{FileName: "a.png", Data: []byte("png")}))

	assert.ErrorIs(t, o.SelectTab("settings"), ErrUnknownTab)
	assert.Equal(t, models.WorkflowVerify, o.ActiveTab())

	snap := o.Snapshot()
	assert.Equal(t, map[string]string{FieldRole: "SRE"}, snap.Interview.Fields)
	assert.Equal(t, map[string]string{FieldName: "Jane"}, snap.Resume.Fields)
	assert.Equal(t, "a.png", snap.Verify.FileName)
}

func TestOrchestratorConcurrentWorkflows(t *testing.T) {
	d := newGatedDispatcher()
	o := newTestOrchestrator(t, d, true)
	require.Equal(t, EndpointLogin, <-d.entered)

	interviewGate := d.hold(EndpointInterview)
	verifyGate := d.hold(EndpointVerify)

	require.NoError(t, o.UpdateField(FieldRole, "Backend Engineer"))
	started, interviewDone, err := o.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowInterview, started)

	// Leaving the tab neither cancels nor clears the interview.
	require.NoError(t, o.SelectTab(models.WorkflowVerify))
	require.NoError(t, o.SelectFile(MemoryFile{FileName: "cert.png", Data: []byte("\x89PNG\r\n\x1a\n")}))
	started, verifyDone, err := o.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowVerify, started)

	assert.ElementsMatch(t, []Endpoint{EndpointInterview, EndpointVerify}, []Endpoint{<-d.entered, <-d.entered})

	close(verifyGate)
	<-verifyDone
	snap := o.Snapshot()
	assert.Equal(t, ResultSuccess, snap.Verify.Result.Status)
	assert.Equal(t, "blurry", snap.Verify.Result.Payload.Reasoning)
	assert.True(t, snap.Interview.Loading)
	assert.Equal(t, ResultPending, snap.Interview.Result.Status)

	close(interviewGate)
	<-interviewDone
	o.Wait()

	snap = o.Snapshot()
	assert.False(t, snap.Interview.Loading)
	assert.Equal(t, []models.QA{{Question: "Q1", Answer: "A1"}}, snap.Interview.Result.Payload)
	assert.Equal(t, models.WorkflowVerify, snap.ActiveTab)
}

func TestOrchestratorSubmitReportsStartedWorkflow(t *testing.T) {
	d := newFakeDispatcher(respondJSON(`{"pdf_url":"https://cdn/r.pdf"}`)).blocking()
	frames := NewFrameBuffer()
	frames.Update(testFrame)
	o := NewOrchestrator(
		NewSessionGate(frames, newFakeDispatcher(respondJSON(`{}`)), time.Second, WithScheduler(func(_ time.Duration, f func()) { f() })),
		NewInterviewController(d),
		NewResumeController(d),
		NewVerifyController(d, NewEncoder()),
	)
	require.NoError(t, o.Login(context.Background()))
	require.NoError(t, o.SelectTab(models.WorkflowResume))

	started, done, err := o.Submit(context.Background())
	require.NoError(t, err)
	<-d.entered

	// Switching away after the start does not change what was started.
	require.NoError(t, o.SelectTab(models.WorkflowInterview))
	assert.Equal(t, models.WorkflowResume, started)

	d.unblock()
	<-done
	assert.Equal(t, ResultSuccess, o.Resume().Result().Status)
	assert.Equal(t, ResultIdle, o.Interview().Result().Status)
}
