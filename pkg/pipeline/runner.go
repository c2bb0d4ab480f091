package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/warpack/pkg/archive"
	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/deps/java"
	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/integrations/maven"
	"github.com/matzehuels/warpack/pkg/observability"
)

// Runner executes the packaging pipeline.
//
// The Runner holds no per-run state, so one Runner may serve several
// goroutines with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete resolve → preconfigure → assemble pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	app, err := java.ReadApplication(opts.POM)
	if err != nil {
		return nil, err
	}
	opts.apply(app)
	if !app.IsWar() {
		return nil, errors.New(errors.ErrCodeUnsupportedProject,
			"%s has packaging %q; only war projects can be packaged", opts.POM, app.Packaging)
	}
	if !filepath.IsAbs(app.BuildDir) {
		abs, err := filepath.Abs(app.BuildDir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", app.BuildDir)
		}
		app.BuildDir = abs
	}

	repo, err := maven.NewRepository(opts.Repository)
	if err != nil {
		return nil, err
	}
	result := &Result{Application: app}

	// Stage 1: Resolve
	err = r.stage(ctx, StageResolve, &result.Stats.ResolveTime, func() error {
		root, _ := deps.ParseCoordinate(opts.Boot)
		res, err := r.resolve(ctx, repo, root, opts.ResolveOptions(), logger)
		if err != nil {
			return err
		}
		result.Resolution = res
		result.Libraries, err = libraries(repo, res)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("resolved libraries",
		"root", result.Resolution.Root,
		"libraries", len(result.Libraries),
		"duration", result.Stats.ResolveTime)

	// Stage 2: Preconfigure
	err = r.stage(ctx, StagePreconfigure, &result.Stats.PreconfigureTime, func() error {
		var err error
		result.Descriptor, err = opts.Preconfigurer.Preconfigure(ctx, app.ExplodedDir())
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("preconfigured application",
		"descriptor", result.Descriptor,
		"duration", result.Stats.PreconfigureTime)

	// Stage 3: Assemble
	output := opts.Output
	if output == "" {
		output = app.JarPath()
	}
	err = r.stage(ctx, StageAssemble, &result.Stats.AssembleTime, func() error {
		assembler := &archive.Assembler{Logger: logger.Debugf}
		var err error
		result.Archive, err = assembler.Assemble(ctx, archive.Spec{
			Output:     output,
			MainClass:  opts.MainClass,
			Bootstrap:  result.Libraries[0],
			Payload:    app.WarPath(),
			Descriptor: result.Descriptor,
			Libraries:  result.Libraries,
			SkipSuffix: opts.SkipSuffix,
			ModTime:    opts.ModTime,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("assembled archive",
		"output", result.Archive.Output,
		"entries", len(result.Archive.Entries),
		"size", result.Archive.Size,
		"duration", result.Stats.AssembleTime)

	return result, nil
}

// Resolve collects the transitive libraries of root from the repository at
// repoDir. A root without a version resolves the newest one installed.
func (r *Runner) Resolve(ctx context.Context, repoDir string, root deps.Coordinate, opts deps.Options) (*deps.Resolution, error) {
	repo, err := maven.NewRepository(repoDir)
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, repo, root, opts, r.Logger)
}

func (r *Runner) resolve(ctx context.Context, repo *maven.Repository, root deps.Coordinate, opts deps.Options, logger *log.Logger) (*deps.Resolution, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Debugf
	}
	source := java.NewSource(repo, logger.Warnf)
	return deps.NewWalker(source, repo, opts).Tree(ctx, root)
}

// stage times fn and reports it to the stage hooks.
func (r *Runner) stage(ctx context.Context, name string, elapsed *time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Stage()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*elapsed = time.Since(start)
	hooks.OnStageComplete(ctx, name, *elapsed, err)
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// libraries maps the resolution to jar files: the bootstrap runtime first,
// then every collected library in discovery order.
func libraries(repo *maven.Repository, res *deps.Resolution) ([]string, error) {
	paths := make([]string, 0, res.Artifacts.Len()+1)
	boot, err := repo.Artifact(res.Root)
	if err != nil {
		return nil, err
	}
	paths = append(paths, boot)
	for _, c := range res.Artifacts.Coordinates() {
		path, err := repo.Artifact(c)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
