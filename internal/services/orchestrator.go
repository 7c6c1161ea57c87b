package services

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"alfredoptarigan/career-copilot/internal/models"
)

var ErrActionUnavailable = errors.New("action not available on the active tab")

// Snapshot is the read-only state handed to presentation.
type Snapshot struct {
	Session   Session                                  `json:"session"`
	ActiveTab models.Workflow                          `json:"active_tab"`
	Interview WorkflowState[[]models.QA]               `json:"interview"`
	Resume    WorkflowState[models.ResumeDocument]     `json:"resume"`
	Verify    WorkflowState[models.VerificationReport] `json:"verify"`
}

// Orchestrator routes user actions to the controller of the active tab.
// Leaving a tab never cancels or clears that tab's workflow.
type Orchestrator struct {
	gate      *SessionGate
	interview *InterviewController
	resume    *ResumeController
	verify    *VerifyController

	mu  sync.RWMutex
	tab models.Workflow
}

func NewOrchestrator(
	gate *SessionGate,
	interview *InterviewController,
	resume *ResumeController,
	verify *VerifyController,
) *Orchestrator {
	return &Orchestrator{
		gate:      gate,
		interview: interview,
		resume:    resume,
		verify:    verify,
		tab:       models.WorkflowInterview,
	}
}

func (o *Orchestrator) Gate() *SessionGate              { return o.gate }
func (o *Orchestrator) Interview() *InterviewController { return o.interview }
func (o *Orchestrator) Resume() *ResumeController       { return o.resume }
func (o *Orchestrator) Verify() *VerifyController       { return o.verify }

func (o *Orchestrator) Login(ctx context.Context) error {
	return o.gate.Attempt(ctx)
}

func (o *Orchestrator) ActiveTab() models.Workflow {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tab
}

func (o *Orchestrator) SelectTab(tab models.Workflow) error {
	if err := o.requireSession(); err != nil {
		return err
	}
	if !tab.Valid() {
		return errors.Wrapf(ErrUnknownTab, "%q", tab)
	}
	o.mu.Lock()
	o.tab = tab
	o.mu.Unlock()
	return nil
}

// UpdateField routes a form edit to the active tab.
func (o *Orchestrator) UpdateField(name, value string) error {
	if err := o.requireSession(); err != nil {
		return err
	}
	switch o.ActiveTab() {
	case models.WorkflowInterview:
		o.interview.UpdateField(name, value)
	case models.WorkflowResume:
		o.resume.UpdateField(name, value)
	default:
		return ErrActionUnavailable
	}
	return nil
}

// SelectFile chooses the document to verify; only the verify tab takes files.
func (o *Orchestrator) SelectFile(file RawFile) error {
	if err := o.requireSession(); err != nil {
		return err
	}
	if o.ActiveTab() != models.WorkflowVerify {
		return ErrActionUnavailable
	}
	o.verify.SelectFile(file)
	return nil
}

// Submit starts the active tab's workflow and reports which one it started.
// The returned channel closes once its result is stored.
func (o *Orchestrator) Submit(ctx context.Context) (models.Workflow, <-chan struct{}, error) {
	if err := o.requireSession(); err != nil {
		return "", nil, err
	}

	tab := o.ActiveTab()
	var (
		done <-chan struct{}
		err  error
	)
	switch tab {
	case models.WorkflowInterview:
		done, err = startAndSignal(ctx, o.interview)
	case models.WorkflowResume:
		done, err = startAndSignal(ctx, o.resume)
	case models.WorkflowVerify:
		done, err = startAndSignal(ctx, o.verify)
	default:
		err = ErrUnknownTab
	}
	if err != nil {
		return tab, nil, err
	}
	return tab, done, nil
}

func (o *Orchestrator) Snapshot() Snapshot {
	return Snapshot{
		Session:   o.gate.Session(),
		ActiveTab: o.ActiveTab(),
		Interview: o.interview.State(),
		Resume:    o.resume.State(),
		Verify:    o.verify.State(),
	}
}

// Wait blocks until every in-flight workflow request has resolved.
func (o *Orchestrator) Wait() {
	o.interview.Wait()
	o.resume.Wait()
	o.verify.Wait()
}

func (o *Orchestrator) requireSession() error {
	if !o.gate.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func startAndSignal[T any](ctx context.Context, c *Controller[T]) (<-chan struct{}, error) {
	done, err := c.Start(ctx)
	if err != nil {
		return nil, err
	}
	signal := make(chan struct{})
	go func() {
		<-done
		close(signal)
	}()
	return signal, nil
}
