// Package runner resolves, stages, and proxies code submissions to the sandbox.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/avern/runyard/internal/lang"
	"github.com/avern/runyard/internal/sandbox"
	"github.com/avern/runyard/internal/stage"
)

// ErrUnsupportedLanguage is returned when a language has no pinned version
// and the caller supplied no explicit one.
var ErrUnsupportedLanguage = errors.New("no default version")

// Request is one code submission. Version, when set, overrides the pinned
// default and lets unlisted languages through to the sandbox.
type Request struct {
	Language string
	Version  string
	Code     string
}

type Runner struct {
	stager stage.Stager
	exec   sandbox.Executor
	log    *zap.Logger
}

func New(stager stage.Stager, exec sandbox.Executor, log *zap.Logger) *Runner {
	return &Runner{stager: stager, exec: exec, log: log}
}

// Run performs a single execution attempt: resolve the version, stage the
// source, call the sandbox once, and release the staged artifact no matter
// how the call ended. Failures are surfaced, never retried: submitted code is
// not guaranteed idempotent and a silent retry could double-execute it.
func (r *Runner) Run(ctx context.Context, req Request) (*sandbox.Result, error) {
	version := req.Version
	if version == "" {
		spec, err := lang.Resolve(req.Language)
		if err != nil {
			runsTotal.WithLabelValues(req.Language, "unsupported").Inc()
			return nil, fmt.Errorf("%w for %s", ErrUnsupportedLanguage, req.Language)
		}
		version = spec.Version
	}

	art, err := r.stager.Stage(ctx, lang.Filename(req.Language), req.Code)
	if err != nil {
		runsTotal.WithLabelValues(req.Language, "stage_error").Inc()
		return nil, err
	}
	// Burn after use. WithoutCancel so the artifact is still released when
	// the sandbox call itself timed out or the request was cancelled.
	defer func() {
		if rerr := r.stager.Release(context.WithoutCancel(ctx), art); rerr != nil {
			r.log.Warn("release staged artifact", zap.String("artifact_id", art.ID.String()), zap.Error(rerr))
		}
	}()

	start := time.Now()
	res, err := r.exec.Execute(ctx, req.Language, version, []sandbox.File{
		{Name: art.Filename, Content: art.Content},
	})
	runDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		status := "error"
		if errors.Is(err, sandbox.ErrUnreachable) {
			status = "unreachable"
		}
		runsTotal.WithLabelValues(req.Language, status).Inc()
		r.log.Warn("sandbox execution failed",
			zap.String("language", req.Language),
			zap.String("version", version),
			zap.Error(err))
		return nil, err
	}

	runsTotal.WithLabelValues(req.Language, "ok").Inc()
	return res, nil
}
