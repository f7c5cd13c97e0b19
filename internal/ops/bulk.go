package ops

import (
	"iter"

	"github.com/altinukshini/gha-rerun/internal/model"
)

// RunFilter selects runs by conclusion and triggering actor. Empty fields
// match everything.
type RunFilter struct {
	Conclusion model.RunConclusion
	Actor      string
}

func (f RunFilter) Match(r model.Run) bool {
	if f.Conclusion != "" && r.Conclusion != f.Conclusion {
		return false
	}
	if f.Actor != "" && r.Actor.Login != f.Actor {
		return false
	}
	return true
}

// SelectTargetRuns lazily yields the runs triggered by actor. Source errors
// are passed through unchanged.
func SelectTargetRuns(runs iter.Seq2[model.Run, error], actor string) iter.Seq2[model.Run, error] {
	filter := RunFilter{Actor: actor}
	return func(yield func(model.Run, error) bool) {
		for r, err := range runs {
			if err != nil {
				if !yield(r, err) {
					return
				}
				continue
			}
			if !filter.Match(r) {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// FirstFailedRun returns the first run by actor that concluded with a
// failure and stops pulling from runs after it. It returns nil when no run
// qualifies, and the first source error otherwise.
func FirstFailedRun(runs iter.Seq2[model.Run, error], actor string) (*model.Run, error) {
	failed := RunFilter{Conclusion: model.ConclusionFailure}
	for r, err := range SelectTargetRuns(runs, actor) {
		if err != nil {
			return nil, err
		}
		if failed.Match(r) {
			return &r, nil
		}
	}
	return nil, nil
}

// Slice adapts a slice to the iterator shape SelectTargetRuns expects.
func Slice(runs []model.Run) iter.Seq2[model.Run, error] {
	return func(yield func(model.Run, error) bool) {
		for _, r := range runs {
			if !yield(r, nil) {
				return
			}
		}
	}
}
