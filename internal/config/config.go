package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/altinukshini/gha-rerun/internal/model"
)

const DefaultPullComment = "Retry requested on workflow %s due to missing secrets."

// Config is built once at startup and passed to every component. Nothing
// below cmd/ reads the environment.
type Config struct {
	Repo  string // owner/repo
	Host  string
	Token string

	WorkflowName  string
	JobName       string
	StepName      string
	TriggerString string
	Actor         string

	LogArchivePath string

	PullLabel         string
	EnablePullComment bool
	PullComment       string
	DryRun            bool
	RerunFailedOnly   bool

	ArchiveBucket string
	ArchivePrefix string

	LogLevel  string
	LogFormat string
	Schedule  string
}

func (c Config) RepoNWO() string {
	return c.Repo
}

func (c Config) TriggerQuery() model.TriggerQuery {
	return model.TriggerQuery{JobName: c.JobName, StepName: c.StepName, Trigger: c.TriggerString}
}

// CommentBody renders the pull request comment for a rerun of workflowName.
// Every "%s" in the template is replaced by the name; other text, including
// other % sequences, is kept as written.
func (c Config) CommentBody(workflowName string) string {
	tmpl := c.PullComment
	if tmpl == "" {
		tmpl = DefaultPullComment
	}
	return strings.ReplaceAll(tmpl, "%s", workflowName)
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{KeyRepo, c.Repo},
		{KeyToken, c.Token},
		{KeyWorkflowName, c.WorkflowName},
		{KeyJobName, c.JobName},
		{KeyStepName, c.StepName},
		{KeyTriggerString, c.TriggerString},
		{KeyActor, c.Actor},
		{KeyLogArchivePath, c.LogArchivePath},
	}
	var errs []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required (flag --%s or env %s)", r.key, r.key, envNames[r.key]))
		}
	}
	if c.Repo != "" {
		owner, name, ok := strings.Cut(c.Repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			errs = append(errs, fmt.Errorf("repo must be in owner/repo format, got %q", c.Repo))
		}
	}
	return errors.Join(errs...)
}

// String renders the configuration for logs with the token redacted.
func (c Config) String() string {
	token := ""
	if c.Token != "" {
		token = "***"
	}
	return fmt.Sprintf("repo=%s host=%s token=%s workflow=%q job=%q step=%q trigger=%q actor=%q log_zip=%s label=%q comment=%t dry_run=%t",
		c.Repo, c.Host, token, c.WorkflowName, c.JobName, c.StepName, c.TriggerString, c.Actor,
		c.LogArchivePath, c.PullLabel, c.EnablePullComment, c.DryRun)
}
