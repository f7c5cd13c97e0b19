package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys double as flag names.
const (
	KeyRepo              = "repo"
	KeyHost              = "host"
	KeyToken             = "token"
	KeyWorkflowName      = "workflow-name"
	KeyJobName           = "job-name"
	KeyStepName          = "step-name"
	KeyTriggerString     = "trigger-string"
	KeyActor             = "actor"
	KeyLogArchivePath    = "log-archive-path"
	KeyPullLabel         = "pull-label"
	KeyEnablePullComment = "enable-pull-comment"
	KeyPullComment       = "pull-comment"
	KeyDryRun            = "dry-run"
	KeyRerunFailedOnly   = "rerun-failed-only"
	KeyArchiveBucket     = "archive-bucket"
	KeyArchivePrefix     = "archive-prefix"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeySchedule          = "schedule"
)

var envNames = map[string]string{
	KeyRepo:              "GITHUB_REPO",
	KeyHost:              "GITHUB_HOST",
	KeyToken:             "GITHUB_TOKEN",
	KeyWorkflowName:      "WORKFLOW_NAME",
	KeyJobName:           "JOB_NAME",
	KeyStepName:          "STEP_NAME",
	KeyTriggerString:     "TRIGGER_STRING",
	KeyActor:             "GITHUB_ACTOR",
	KeyLogArchivePath:    "LOG_ZIP",
	KeyPullLabel:         "GITHUB_PULL_LABEL",
	KeyEnablePullComment: "GITHUB_ENABLE_COMMENT",
	KeyPullComment:       "GITHUB_PULL_COMMENT",
	KeyDryRun:            "DRY_RUN",
	KeyRerunFailedOnly:   "RERUN_FAILED_ONLY",
	KeyArchiveBucket:     "LOG_ARCHIVE_BUCKET",
	KeyArchivePrefix:     "LOG_ARCHIVE_PREFIX",
	KeyLogLevel:          "LOG_LEVEL",
	KeyLogFormat:         "LOG_FORMAT",
	KeySchedule:          "SCHEDULE",
}

var defaults = map[string]interface{}{
	KeyHost:              "github.com",
	KeyEnablePullComment: false,
	KeyPullComment:       DefaultPullComment,
	KeyDryRun:            false,
	KeyRerunFailedOnly:   false,
	KeyArchivePrefix:     "gha-rerun",
	KeyLogLevel:          "info",
	KeyLogFormat:         "json",
	KeySchedule:          "@every 10m",
}

// Loader resolves settings from, highest precedence first: flags that were
// set, environment variables, .env files, defaults.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envNames {
		// BindEnv only errors when called without a key.
		_ = v.BindEnv(key, env)
	}
	return &Loader{v: v}
}

// RegisterFlags adds one flag per setting to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyRepo, "", "Repository in owner/repo format")
	fs.String(KeyHost, "github.com", "GitHub host")
	fs.String(KeyToken, "", "GitHub token (prefer the GITHUB_TOKEN env var)")
	fs.String(KeyWorkflowName, "", "Substring of the workflow name to monitor")
	fs.String(KeyJobName, "", "Substring of the job directory in the log archive")
	fs.String(KeyStepName, "", "Substring of the step log file in the job directory")
	fs.String(KeyTriggerString, "", "Literal text a log line must end with to trigger a rerun")
	fs.String(KeyActor, "", "Only consider runs triggered by this actor")
	fs.String(KeyLogArchivePath, "", "Scratch path for the downloaded log archive")
	fs.String(KeyPullLabel, "", "Label added to associated pull requests after a rerun")
	fs.Bool(KeyEnablePullComment, false, "Comment on associated pull requests after a rerun")
	fs.String(KeyPullComment, DefaultPullComment, "Pull request comment; %s is replaced by the workflow name")
	fs.Bool(KeyDryRun, false, "Do everything except the rerun itself")
	fs.Bool(KeyRerunFailedOnly, false, "Rerun only the failed jobs instead of the whole workflow")
	fs.String(KeyArchiveBucket, "", "S3 bucket to keep downloaded log archives in (optional)")
	fs.String(KeyArchivePrefix, "gha-rerun", "Key prefix for archived logs")
	fs.String(KeyLogLevel, "info", "Log level: debug, info, warn, error")
	fs.String(KeyLogFormat, "json", "Log format: json or console")
	fs.String(KeySchedule, "@every 10m", "Cron schedule for watch mode")
}

// BindFlags makes every registered setting flag in fs override the
// environment when it is set on the command line.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	var errs []error
	for key := range envNames {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// LoadDotEnv loads variables from .env style files. Missing files are
// skipped and variables already in the environment are left alone.
func (l *Loader) LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load resolves and validates the configuration.
func (l *Loader) Load() (Config, error) {
	v := l.v
	cfg := Config{
		Repo:              v.GetString(KeyRepo),
		Host:              v.GetString(KeyHost),
		Token:             v.GetString(KeyToken),
		WorkflowName:      v.GetString(KeyWorkflowName),
		JobName:           v.GetString(KeyJobName),
		StepName:          v.GetString(KeyStepName),
		TriggerString:     v.GetString(KeyTriggerString),
		Actor:             v.GetString(KeyActor),
		LogArchivePath:    v.GetString(KeyLogArchivePath),
		PullLabel:         v.GetString(KeyPullLabel),
		EnablePullComment: v.GetBool(KeyEnablePullComment),
		PullComment:       v.GetString(KeyPullComment),
		DryRun:            v.GetBool(KeyDryRun),
		RerunFailedOnly:   v.GetBool(KeyRerunFailedOnly),
		ArchiveBucket:     v.GetString(KeyArchiveBucket),
		ArchivePrefix:     v.GetString(KeyArchivePrefix),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		Schedule:          v.GetString(KeySchedule),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
