package model

import (
	"strings"
	"time"
)

type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusWaiting    RunStatus = "waiting"
	RunStatusRequested  RunStatus = "requested"
	RunStatusPending    RunStatus = "pending"
)

type RunConclusion string

const (
	ConclusionSuccess   RunConclusion = "success"
	ConclusionFailure   RunConclusion = "failure"
	ConclusionCancelled RunConclusion = "cancelled"
	ConclusionSkipped   RunConclusion = "skipped"
	ConclusionTimedOut  RunConclusion = "timed_out"
	ConclusionNeutral   RunConclusion = "neutral"
)

// Run is a single workflow run as returned by the Actions API. Runs are
// read-only once fetched.
type Run struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	DisplayTitle string        `json:"display_title"`
	Status       RunStatus     `json:"status"`
	Conclusion   RunConclusion `json:"conclusion"`
	WorkflowID   int64         `json:"workflow_id"`
	RunNumber    int           `json:"run_number"`
	RunAttempt   int           `json:"run_attempt"`
	Event        string        `json:"event"`
	HeadBranch   string        `json:"head_branch"`
	HeadSHA      string        `json:"head_sha"`
	HeadCommit   *Commit       `json:"head_commit"`
	Actor        Actor         `json:"actor"`
	PullRequests []PullRequest `json:"pull_requests"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	HTMLURL      string        `json:"html_url"`
	LogsURL      string        `json:"logs_url"`
}

type Actor struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type RunsResponse struct {
	TotalCount int   `json:"total_count"`
	Runs       []Run `json:"workflow_runs"`
}

func (r Run) ShortSHA() string {
	if len(r.HeadSHA) >= 7 {
		return r.HeadSHA[:7]
	}
	return r.HeadSHA
}

// CommitTitle returns the first line of the head commit message.
func (r Run) CommitTitle() string {
	if r.HeadCommit == nil {
		return ""
	}
	title, _, _ := strings.Cut(r.HeadCommit.Message, "\n")
	return title
}
