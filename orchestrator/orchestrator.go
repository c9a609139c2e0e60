// Package orchestrator implements the fixpoint driver of spec.md §4.7:
// build an Arborist, reset the fingerprint cache for the job, then loop
// the safe pass list to a commit, the unsafe pass list to a commit, and
// repeat until neither list makes progress or the iteration budget is
// exhausted. An optional cleanup pass then runs to its own fixpoint.
package orchestrator

import (
	"go.uber.org/zap"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/cache"
	"github.com/t14raptor/deobfuscate/context"
	"github.com/t14raptor/deobfuscate/passes"
)

// Config mirrors spec.md §4.7's Inputs: {maxIterations, cleanup?}.
type Config struct {
	// MaxIterations bounds the outer loop. Zero or negative means run
	// no iterations at all: Run returns the parsed-and-printed input
	// unchanged. There is no "unbounded" sentinel — callers that want
	// many iterations just pass a large number, per the Open Question
	// decision recorded in DESIGN.md.
	MaxIterations int
	// Cleanup, when true, runs the dead-code pass to fixpoint after the
	// main loop stabilizes.
	Cleanup bool
}

// Result carries everything the CLI reports back to the user.
type Result struct {
	Output     string
	Iterations int
}

// Run executes the full pipeline against source and returns the
// rewritten text.
func Run(source string, cfg Config, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	arb, err := arborist.New(source)
	if err != nil {
		return Result{}, err
	}

	c := cache.New()
	c.Reset()
	c.Get(cache.Fingerprint64(arb.Script()))
	collector := context.New(c)
	unsafe := passes.UnsafePasses(collector)

	iterations := 0
	remaining := cfg.MaxIterations
	if remaining < 0 {
		remaining = 0
	}

	for remaining > 0 {
		safeProgress, err := runPassList(arb, passes.SafePasses, log)
		if err != nil {
			return Result{}, err
		}
		arb = safeProgress.arb

		unsafeProgress, err := runPassList(arb, unsafe, log)
		if err != nil {
			return Result{}, err
		}
		arb = unsafeProgress.arb

		iterations++
		remaining--
		log.Debug("orchestrator iteration",
			zap.Int("iteration", iterations),
			zap.Bool("safeProgress", safeProgress.changed),
			zap.Bool("unsafeProgress", unsafeProgress.changed),
		)

		if !safeProgress.changed && !unsafeProgress.changed {
			break
		}
	}

	if cfg.Cleanup {
		for {
			progress, err := runPassList(arb, []passes.Pass{passes.Cleanup}, log)
			if err != nil {
				return Result{}, err
			}
			arb = progress.arb
			if !progress.changed {
				break
			}
		}
	}

	return Result{Output: arb.Script(), Iterations: iterations}, nil
}

type listProgress struct {
	arb     *arborist.Arborist
	changed bool
}

// runPassList runs every pass in list in declared order, committing
// after each per spec.md §4.7 step 2a/2b, and reports whether any of
// them changed the source.
func runPassList(arb *arborist.Arborist, list []passes.Pass, log *zap.Logger) (listProgress, error) {
	changed := false
	for _, p := range list {
		before := arb.Script()
		next, ok, err := p.Run(arb, nil)
		if err != nil {
			return listProgress{}, err
		}
		arb = next
		if ok && arb.Script() != before {
			changed = true
			log.Debug("pass made progress", zap.String("pass", p.Name))
		}
	}
	return listProgress{arb: arb, changed: changed}, nil
}
