// Package events emits one structured log line per step of an invocation.
// Every line carries an "event" field naming its Kind, and each Kind has a
// fixed set of fields set by its method.
package events

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/altinukshini/gha-rerun/internal/model"
)

type Kind string

const (
	RepoResolved        Kind = "repo_resolved"
	RepoNotFound        Kind = "repo_not_found"
	LookupFailed        Kind = "lookup_failed"
	WorkflowSearch      Kind = "workflow_search"
	WorkflowResolved    Kind = "workflow_resolved"
	WorkflowNotFound    Kind = "workflow_not_found"
	RunSearch           Kind = "run_search"
	FailedRunFound      Kind = "failed_run_found"
	NoFailedRun         Kind = "no_failed_run"
	LogDownloadFailed   Kind = "log_download_failed"
	LogStored           Kind = "log_stored"
	LogArchived         Kind = "log_archived"
	LogArchiveFailed    Kind = "log_archive_failed"
	LogEntryNotFound    Kind = "log_entry_not_found"
	TriggerCheck        Kind = "trigger_check"
	TriggerFound        Kind = "trigger_found"
	TriggerNotFound     Kind = "trigger_not_found"
	RerunRequested      Kind = "rerun_requested"
	DryRun              Kind = "dry_run"
	RerunDeclined       Kind = "rerun_declined"
	PullNotified        Kind = "pull_notified"
	PullNotifyFailed    Kind = "pull_notify_failed"
	RunProcessingFailed Kind = "run_processing_failed"
)

const eventKey = "event"

type Recorder struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{log: log}
}

// With returns a Recorder that adds fields to every event, such as an
// invocation id.
func (r *Recorder) With(fields ...zap.Field) *Recorder {
	return &Recorder{log: r.log.With(fields...)}
}

// Logger exposes the underlying logger for collaborators that log on their own.
func (r *Recorder) Logger() *zap.Logger { return r.log }

func (r *Recorder) emit(level zapcore.Level, kind Kind, msg string, fields ...zap.Field) {
	if ce := r.log.Check(level, msg); ce != nil {
		ce.Write(append([]zap.Field{zap.String(eventKey, string(kind))}, fields...)...)
	}
}

func (r *Recorder) RepoResolved(repo model.Repository) {
	r.emit(zap.InfoLevel, RepoResolved, "Using repo", zap.String("name", repo.FullName))
}

func (r *Recorder) RepoNotFound(name string) {
	r.emit(zap.ErrorLevel, RepoNotFound, "Repo not found", zap.String("name", name))
}

// LookupFailed reports a repo or workflow lookup that failed for a reason
// other than the resource being absent.
func (r *Recorder) LookupFailed(target string, err error) {
	r.emit(zap.ErrorLevel, LookupFailed, "Lookup failed", zap.String("target", target), zap.Error(err))
}

func (r *Recorder) WorkflowSearch(query string) {
	r.emit(zap.InfoLevel, WorkflowSearch, "Searching workflows...", zap.String("query", query))
}

func (r *Recorder) WorkflowResolved(wf model.Workflow) {
	r.emit(zap.InfoLevel, WorkflowResolved, "Workflow found.",
		zap.Int64("workflow_id", wf.ID),
		zap.String("workflow_name", wf.Name))
}

func (r *Recorder) WorkflowNotFound(repo, query string) {
	r.emit(zap.ErrorLevel, WorkflowNotFound, "Workflow not found",
		zap.String("name", repo),
		zap.String("query", query))
}

func (r *Recorder) RunSearch(actor string) {
	r.emit(zap.InfoLevel, RunSearch, "Searching for failed runs", zap.String("query", actor))
}

func (r *Recorder) FailedRunFound(wf model.Workflow, run model.Run) {
	r.emit(zap.InfoLevel, FailedRunFound, "Failed run found",
		zap.String("commit_title", run.CommitTitle()),
		zap.Int64("workflow_id", wf.ID),
		zap.String("workflow_name", wf.Name),
		zap.Int64("run_id", run.ID),
		zap.String("git_actor", run.Actor.Login),
		zap.String("commit_sha", run.ShortSHA()),
		zap.Time("run_created_at", run.CreatedAt))
}

func (r *Recorder) NoFailedRun(actor string) {
	r.emit(zap.InfoLevel, NoFailedRun, "No matching failed runs found", zap.String("query", actor))
}

func (r *Recorder) LogDownloadFailed(url string, status int, err error) {
	r.emit(zap.ErrorLevel, LogDownloadFailed, "Failed to download log",
		zap.String("log_url", url),
		zap.Int("status", status),
		zap.Error(err))
}

func (r *Recorder) LogStored(file string, size int64) {
	r.emit(zap.InfoLevel, LogStored, "Stored log in",
		zap.String("log_file", file),
		zap.Int64("bytes", size))
}

func (r *Recorder) LogArchived(location string) {
	r.emit(zap.InfoLevel, LogArchived, "Archived log", zap.String("location", location))
}

func (r *Recorder) LogArchiveFailed(err error) {
	r.emit(zap.WarnLevel, LogArchiveFailed, "Failed to archive log", zap.Error(err))
}

func (r *Recorder) LogEntryNotFound(job, step string, err error) {
	r.emit(zap.ErrorLevel, LogEntryNotFound, "Could not find logfile match",
		zap.String("job_name", job),
		zap.String("step_name", step),
		zap.Error(err))
}

func (r *Recorder) TriggerCheck(query, file string) {
	r.emit(zap.InfoLevel, TriggerCheck, "Checking logs for trigger string...",
		zap.String("query", query),
		zap.String("log_file", file))
}

func (r *Recorder) TriggerFound(m model.TriggerMatch) {
	r.emit(zap.InfoLevel, TriggerFound, "Found trigger",
		zap.String("log_file", m.File),
		zap.Int("log_line_number", m.Line),
		zap.String("log_line", m.Content))
}

func (r *Recorder) TriggerNotFound(trigger string) {
	r.emit(zap.InfoLevel, TriggerNotFound, "Trigger not found.", zap.String("trigger", trigger))
}

func (r *Recorder) RerunRequested(wf model.Workflow, run model.Run) {
	r.emit(zap.InfoLevel, RerunRequested, "Rerunning workflow",
		zap.Int64("workflow_id", wf.ID),
		zap.String("workflow_name", wf.Name),
		zap.Int64("run_id", run.ID))
}

func (r *Recorder) DryRun(run model.Run) {
	r.emit(zap.InfoLevel, DryRun,
		"This is a dry run, no retry will be triggered, but comments and labels will be added, if configured.",
		zap.Int64("run_id", run.ID))
}

func (r *Recorder) RerunDeclined(run model.Run) {
	r.emit(zap.InfoLevel, RerunDeclined, "Rerun declined", zap.Int64("run_id", run.ID))
}

func (r *Recorder) PullNotified(number int, label string, commented bool) {
	r.emit(zap.InfoLevel, PullNotified, "Pull request notified",
		zap.Int("pull_number", number),
		zap.String("label", label),
		zap.Bool("commented", commented))
}

func (r *Recorder) PullNotifyFailed(number int, action string, err error) {
	r.emit(zap.WarnLevel, PullNotifyFailed, "Failed to notify pull request",
		zap.Int("pull_number", number),
		zap.String("action", action),
		zap.Error(err))
}

func (r *Recorder) RunProcessingFailed(kind, op, origin string, err error) {
	r.emit(zap.ErrorLevel, RunProcessingFailed, "Exception",
		zap.String("type", kind),
		zap.String("op", op),
		zap.String("origin", origin),
		zap.Error(err))
}
