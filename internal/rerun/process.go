package rerun

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/altinukshini/gha-rerun/internal/api"
	"github.com/altinukshini/gha-rerun/internal/archive"
	"github.com/altinukshini/gha-rerun/internal/events"
	"github.com/altinukshini/gha-rerun/internal/model"
)

type Status int

const (
	StatusRerun Status = iota + 1
	StatusNoTrigger
	StatusDeclined
)

func (s Status) Message() string {
	switch s {
	case StatusRerun:
		return MsgRerun
	case StatusNoTrigger:
		return MsgNoTrigger
	case StatusDeclined:
		return MsgDeclined
	default:
		return ""
	}
}

// Outcome is how processing a run ended when it did not fail.
type Outcome struct {
	Status Status
	Match  *model.TriggerMatch
}

// processRun downloads the run's log archive, scans the configured step log
// for the trigger and reruns the workflow when it is found. The scratch
// archive is removed before it returns.
func (h *Handler) processRun(ctx context.Context, rec *events.Recorder, wf model.Workflow, run model.Run) (Outcome, error) {
	rec.FailedRunFound(wf, run)
	defer func() {
		if err := h.store.Remove(); err != nil {
			rec.Logger().Warn("failed to remove log archive", zap.Error(err))
		}
	}()

	match, err := h.findTrigger(ctx, rec, run)
	if err != nil {
		return Outcome{}, err
	}
	if match == nil {
		rec.TriggerNotFound(h.cfg.TriggerString)
		return Outcome{Status: StatusNoTrigger}, nil
	}
	rec.TriggerFound(*match)

	if h.confirmer != nil {
		prompt := fmt.Sprintf("%s run %d (%s) failed with %q at %s line %d.",
			wf.Name, run.ID, run.ShortSHA(), match.Content, match.File, match.Line)
		ok, err := h.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return Outcome{Match: match}, fail("confirm rerun", err)
		}
		if !ok {
			rec.RerunDeclined(run)
			return Outcome{Status: StatusDeclined, Match: match}, nil
		}
	}

	rec.RerunRequested(wf, run)
	if h.cfg.DryRun {
		rec.DryRun(run)
	} else if err := h.rerun(ctx, run.ID); err != nil {
		return Outcome{Match: match}, fail("rerun workflow", fmt.Errorf("%w: %w", ErrRerunRejected, err))
	}

	h.notifyPulls(ctx, rec, wf, run.PullRequests)
	return Outcome{Status: StatusRerun, Match: match}, nil
}

// findTrigger stores the run's archive, locates the step log and scans it.
func (h *Handler) findTrigger(ctx context.Context, rec *events.Recorder, run model.Run) (*model.TriggerMatch, error) {
	body, err := h.downloadLogs(ctx, run)
	if err != nil {
		url := run.LogsURL
		var de *api.DownloadError
		if errors.As(err, &de) {
			url = de.URL
		}
		rec.LogDownloadFailed(url, api.StatusCode(err), err)
		return nil, fail("download logs", err)
	}
	n, err := h.store.Store(body)
	body.Close()
	if err != nil {
		return nil, fail("store logs", err)
	}
	rec.LogStored(h.store.Path(), n)

	if h.archiver != nil {
		loc, err := h.archiver.Archive(ctx, h.cfg.RepoNWO(), run, h.store.Path())
		if err != nil {
			rec.LogArchiveFailed(err)
		} else {
			rec.LogArchived(loc)
		}
	}

	zr, err := h.store.Open()
	if err != nil {
		return nil, fail("open logs", err)
	}
	defer zr.Close()

	q := h.cfg.TriggerQuery()
	entry, err := archive.Locate(&zr.Reader, q.JobName, q.StepName)
	if err != nil {
		rec.LogEntryNotFound(q.JobName, q.StepName, err)
		return nil, fail("locate step log", err)
	}

	rec.TriggerCheck(q.Trigger, entry)
	f, err := archive.OpenEntry(&zr.Reader, entry)
	if err != nil {
		return nil, fail("open step log", err)
	}
	defer f.Close()

	match, err := h.scanner.ScanForTrigger(f, q.Trigger)
	if err != nil {
		return nil, fail("scan step log", err)
	}
	if match != nil {
		match.File = entry
	}
	return match, nil
}

// downloadLogs fetches the archive of the attempt that failed. Runs without
// an attempt number fall back to the run's logs URL.
func (h *Handler) downloadLogs(ctx context.Context, run model.Run) (io.ReadCloser, error) {
	if run.RunAttempt > 0 {
		return h.platform.DownloadRunAttemptLogs(ctx, run.ID, run.RunAttempt)
	}
	return h.platform.DownloadRunLogs(ctx, run)
}

func (h *Handler) rerun(ctx context.Context, runID int64) error {
	if h.cfg.RerunFailedOnly {
		return h.platform.RerunFailedJobs(ctx, runID, false)
	}
	return h.platform.RerunWorkflow(ctx, runID, false)
}

// notifyPulls labels and comments on the run's pull requests as configured.
// Failures are reported and otherwise ignored.
func (h *Handler) notifyPulls(ctx context.Context, rec *events.Recorder, wf model.Workflow, pulls []model.PullRequest) {
	if h.cfg.PullLabel == "" && !h.cfg.EnablePullComment {
		return
	}
	for _, pr := range pulls {
		var label string
		var commented bool
		if h.cfg.PullLabel != "" {
			if _, err := h.platform.AddLabels(ctx, pr.Number, h.cfg.PullLabel); err != nil {
				rec.PullNotifyFailed(pr.Number, "label", err)
			} else {
				label = h.cfg.PullLabel
			}
		}
		if h.cfg.EnablePullComment {
			if _, err := h.platform.CreateComment(ctx, pr.Number, h.cfg.CommentBody(wf.Name)); err != nil {
				rec.PullNotifyFailed(pr.Number, "comment", err)
			} else {
				commented = true
			}
		}
		if label != "" || commented {
			rec.PullNotified(pr.Number, label, commented)
		}
	}
}
