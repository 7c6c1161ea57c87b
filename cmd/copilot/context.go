package main

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/config"
	"alfredoptarigan/career-copilot/internal/logging"
	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/repositories"
	"alfredoptarigan/career-copilot/internal/services"
)

type globalOptions struct {
	baseURL    string
	framePath  string
	jsonOutput bool
}

// commandContext builds the core lazily so --help never touches config.
type commandContext struct {
	opts *globalOptions

	once         sync.Once
	initErr      error
	cfg          *config.Config
	logger       zerolog.Logger
	orchestrator *services.Orchestrator
	history      repositories.SubmissionRepository
	fetcher      services.ResumeFetcher
}

func newCommandContext(opts *globalOptions) *commandContext {
	return &commandContext{opts: opts}
}

func (c *commandContext) ensure() error {
	c.once.Do(func() {
		cfg := config.Load()
		if v := strings.TrimSpace(c.opts.baseURL); v != "" {
			cfg.Backend.BaseURL = strings.TrimRight(v, "/")
		}
		if v := strings.TrimSpace(c.opts.framePath); v != "" {
			cfg.Capture.FramePath = v
		}
		c.cfg = cfg
		c.logger = logging.New(cfg.Log, os.Stderr)

		db, err := config.InitHistoryDatabase(cfg, c.logger)
		if err != nil {
			c.initErr = err
			return
		}
		c.history = repositories.NewSubmissionRepository(db)

		dispatcher := services.NewDispatcher(cfg.Backend.BaseURL, cfg.Backend.HTTPTimeout, services.WithDispatcherLogger(c.logger))
		controllerOpts := []services.ControllerOption{
			services.WithRecorder(services.NewHistoryRecorder(c.history, c.logger)),
			services.WithControllerLogger(c.logger),
		}
		gate := services.NewSessionGate(
			services.NewFileCaptureSource(cfg.Capture.FramePath),
			dispatcher,
			cfg.Session.LoginTransitionDelay,
			services.WithGateLogger(c.logger),
		)
		c.orchestrator = services.NewOrchestrator(
			gate,
			services.NewInterviewController(dispatcher, controllerOpts...),
			services.NewResumeController(dispatcher, controllerOpts...),
			services.NewVerifyController(dispatcher, services.NewEncoder(), controllerOpts...),
		)

		storage := services.NewStorageService(cfg.Storage.DownloadPath, cfg.Server.MaxUploadSize)
		c.fetcher = services.NewResumeFetcher(storage, services.NewPDFParserService(), cfg.Backend.HTTPTimeout, c.logger)
	})
	return c.initErr
}

// login runs the session gate to completion, including the transition delay.
// Every command needs its own session: nothing persists between processes.
func (c *commandContext) login(ctx context.Context) error {
	if err := c.ensure(); err != nil {
		return err
	}
	if err := c.orchestrator.Login(ctx); err != nil {
		if errors.Is(err, services.ErrCameraNotReady) {
			return errors.WithHintf(errors.Wrap(err, "login"), "no camera frame at %s", c.cfg.Capture.FramePath)
		}
		return errors.Wrap(err, "login")
	}
	return c.orchestrator.Gate().WaitAuthenticated(ctx)
}

// run logs in, switches to tab, applies fields and waits for the result.
func (c *commandContext) run(ctx context.Context, tab models.Workflow, fields map[string]string, file services.RawFile) error {
	if err := c.login(ctx); err != nil {
		return err
	}
	if err := c.orchestrator.SelectTab(tab); err != nil {
		return err
	}
	for name, value := range fields {
		if err := c.orchestrator.UpdateField(name, value); err != nil {
			return err
		}
	}
	if file != nil {
		if err := c.orchestrator.SelectFile(file); err != nil {
			return err
		}
	}

	_, done, err := c.orchestrator.Submit(ctx)
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
