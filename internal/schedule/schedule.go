// Package schedule runs a job repeatedly on a cron spec, never letting two
// runs of the job overlap.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled invocation. It receives the context passed to Run.
type Job func(ctx context.Context)

type Runner struct {
	log   *zap.Logger
	chain cron.Chain
	// RunOnStart invokes the job once before the first tick.
	RunOnStart bool
}

func New(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	l := cronLogger{log.Sugar()}
	return &Runner{
		log:   log,
		chain: cron.NewChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	}
}

func (r *Runner) wrap(ctx context.Context, job Job) cron.Job {
	return r.chain.Then(cron.FuncJob(func() { job(ctx) }))
}

// Run schedules job on spec and blocks until ctx is done, then waits for a
// running job to finish.
func (r *Runner) Run(ctx context.Context, spec string, job Job) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	c := cron.New(cron.WithLogger(cronLogger{r.log.Sugar()}))
	wrapped := r.wrap(ctx, job)
	c.Schedule(sched, wrapped)

	r.log.Info("scheduler started", zap.String("schedule", spec))
	c.Start()
	var first sync.WaitGroup
	if r.RunOnStart {
		first.Add(1)
		go func() {
			defer first.Done()
			wrapped.Run()
		}()
	}

	<-ctx.Done()
	r.log.Info("scheduler stopping")
	<-c.Stop().Done()
	first.Wait()
	return nil
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
