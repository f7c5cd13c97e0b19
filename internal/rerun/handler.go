// Package rerun drives one invocation: resolve the repository and workflow,
// pick the newest failed run by the configured actor, look for the trigger
// string in one step log of that run and rerun the workflow when it is there.
package rerun

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/altinukshini/gha-rerun/internal/api"
	"github.com/altinukshini/gha-rerun/internal/cache"
	"github.com/altinukshini/gha-rerun/internal/config"
	"github.com/altinukshini/gha-rerun/internal/events"
	"github.com/altinukshini/gha-rerun/internal/model"
	"github.com/altinukshini/gha-rerun/internal/ops"
	"github.com/altinukshini/gha-rerun/internal/search"
)

const (
	MsgRepoNotFound     = "Repo not found."
	MsgWorkflowNotFound = "Workflow not found."
	MsgNoFailedRun      = "No matching failed runs found."
	MsgRerun            = "Successful retry of workflow"
	MsgNoTrigger        = "No trigger string found in logs"
	MsgDeclined         = "Rerun declined."
	MsgUnexpected       = "Unexpected error in run processing. Check logs."
)

// Platform is the part of the hosting API an invocation talks to.
// *api.Client implements it.
type Platform interface {
	GetRepo(ctx context.Context) (*model.Repository, error)
	FindWorkflow(ctx context.Context, nameSubstr string) (*model.Workflow, error)
	Runs(ctx context.Context, filter api.RunsFilter) iter.Seq2[model.Run, error]
	DownloadRunLogs(ctx context.Context, run model.Run) (io.ReadCloser, error)
	DownloadRunAttemptLogs(ctx context.Context, runID int64, attempt int) (io.ReadCloser, error)
	RerunWorkflow(ctx context.Context, runID int64, debug bool) error
	RerunFailedJobs(ctx context.Context, runID int64, debug bool) error
	AddLabels(ctx context.Context, number int, labels ...string) ([]model.Label, error)
	CreateComment(ctx context.Context, number int, body string) (*model.IssueComment, error)
}

// Archiver keeps a copy of a downloaded log archive and returns where.
type Archiver interface {
	Archive(ctx context.Context, repo string, run model.Run, file string) (string, error)
}

// Confirmer asks an operator before a rerun is requested.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Response is the result of one invocation, shaped like a Lambda proxy
// response.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`

	InvocationID string              `json:"-"`
	Workflow     *model.Workflow     `json:"-"`
	Run          *model.Run          `json:"-"`
	Match        *model.TriggerMatch `json:"-"`
}

func (r Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

type Handler struct {
	cfg       config.Config
	platform  Platform
	store     *cache.LogStore
	scanner   *search.Scanner
	rec       *events.Recorder
	archiver  Archiver
	confirmer Confirmer
}

type Option func(*Handler)

// WithArchiver uploads every downloaded archive before it is scanned.
func WithArchiver(a Archiver) Option {
	return func(h *Handler) { h.archiver = a }
}

// WithConfirmer asks c before every rerun.
func WithConfirmer(c Confirmer) Option {
	return func(h *Handler) { h.confirmer = c }
}

func New(cfg config.Config, platform Platform, store *cache.LogStore, rec *events.Recorder, opts ...Option) *Handler {
	if rec == nil {
		rec = events.New(nil)
	}
	h := &Handler{
		cfg:      cfg,
		platform: platform,
		store:    store,
		scanner:  search.New(),
		rec:      rec,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle runs one invocation. It processes at most one run.
func (h *Handler) Handle(ctx context.Context) Response {
	id := uuid.NewString()
	rec := h.rec.With(zap.String("invocation_id", id))
	resp := h.handle(ctx, rec)
	resp.InvocationID = id
	return resp
}

func (h *Handler) handle(ctx context.Context, rec *events.Recorder) Response {
	repo, err := h.platform.GetRepo(ctx)
	switch {
	case errors.Is(err, api.ErrNotFound), err == nil && repo == nil:
		rec.RepoNotFound(h.cfg.RepoNWO())
		return Response{StatusCode: 404, Body: MsgRepoNotFound}
	case err != nil:
		rec.LookupFailed("repo", err)
		return Response{StatusCode: 500, Body: MsgUnexpected}
	}
	rec.RepoResolved(*repo)

	rec.WorkflowSearch(h.cfg.WorkflowName)
	wf, err := h.platform.FindWorkflow(ctx, h.cfg.WorkflowName)
	switch {
	case errors.Is(err, api.ErrNotFound), err == nil && wf == nil:
		rec.WorkflowNotFound(h.cfg.RepoNWO(), h.cfg.WorkflowName)
		return Response{StatusCode: 404, Body: MsgWorkflowNotFound}
	case err != nil:
		rec.LookupFailed("workflow", err)
		return Response{StatusCode: 500, Body: MsgUnexpected}
	}
	rec.WorkflowResolved(*wf)

	rec.RunSearch(h.cfg.Actor)
	runs := h.platform.Runs(ctx, api.RunsFilter{WorkflowID: wf.ID, Actor: h.cfg.Actor})
	run, err := ops.FirstFailedRun(runs, h.cfg.Actor)
	if err != nil {
		rec.LookupFailed("runs", err)
		return Response{StatusCode: 500, Body: MsgUnexpected, Workflow: wf}
	}
	if run == nil {
		rec.NoFailedRun(h.cfg.Actor)
		return Response{StatusCode: 200, Body: MsgNoFailedRun, Workflow: wf}
	}

	out, err := h.processRun(ctx, rec, *wf, *run)
	return h.respond(rec, out, err, wf, run)
}

// respond maps the result of processing a run to the invocation response.
func (h *Handler) respond(rec *events.Recorder, out Outcome, err error, wf *model.Workflow, run *model.Run) Response {
	resp := Response{Workflow: wf, Run: run, Match: out.Match}
	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			e = fail("process run", err)
		}
		rec.RunProcessingFailed(string(e.Kind), e.Op, e.Origin, e.Err)
		resp.StatusCode = 500
		resp.Body = MsgUnexpected
		return resp
	}
	resp.StatusCode = 200
	resp.Body = out.Status.Message()
	return resp
}
