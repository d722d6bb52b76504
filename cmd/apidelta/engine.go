package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"apidelta/internal/baseline"
	"apidelta/internal/compare"
	"apidelta/internal/config"
	"apidelta/internal/delta"
	apierrors "apidelta/internal/errors"
	"apidelta/internal/fingerprint"
	"apidelta/internal/manifest"
	"apidelta/internal/members"
	"apidelta/internal/modifiers"
	"apidelta/internal/progress"
	"apidelta/internal/scope"
	"apidelta/internal/storage"
)

// inputFlags select the two baselines and how they are compared.
type inputFlags struct {
	baseline   onceString
	profile    onceString
	options    onceString
	record     bool
	components []string
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.Var(&f.baseline, "baseline", "Reference baseline manifest (yaml, toml or json)")
	fs.Var(&f.profile, "profile", "Baseline manifest compared against the reference")
	fs.Var(&f.options, "options", "TOML options file overriding configuration")
	fs.BoolVar(&f.record, "record", false, "Record the run in the history database")
	fs.StringSliceVar(&f.components, "component", nil, "Compare only these profile components")
}

func (f *inputFlags) validate() error {
	if err := required("baseline", &f.baseline); err != nil {
		return err
	}
	return required("profile", &f.profile)
}

// comparison is one finished baseline comparison.
type comparison struct {
	reference *baseline.Baseline
	profile   *baseline.Baseline
	mask      modifiers.Visibility
	result    delta.Result
}

// compare loads both manifests and compares them with the effective
// configuration.
func (a *app) compare(ctx context.Context, f *inputFlags) (*comparison, error) {
	if f.options.set {
		opts, err := config.LoadOptions(f.options.value)
		if err != nil {
			return nil, apierrors.New(apierrors.ConfigInvalid, "load options", err)
		}
		opts.Apply(a.cfg)
		if err := a.cfg.Validate(); err != nil {
			return nil, apierrors.New(apierrors.ConfigInvalid, "invalid options", err)
		}
	}
	if f.record {
		a.cfg.Storage.Enabled = true
	}
	mask, err := a.cfg.VisibilityMask()
	if err != nil {
		return nil, apierrors.New(apierrors.ConfigInvalid, "visibility", err)
	}

	ref, err := manifest.Load(f.baseline.value, a.logger)
	if err != nil {
		return nil, err
	}
	prof, err := manifest.Load(f.profile.value, a.logger)
	if err != nil {
		return nil, err
	}

	tracker := progress.New(func(percent int) {
		a.logger.Debug("Comparison progress", "percent", percent)
	})
	cmp := compare.New(members.New(a.logger),
		compare.WithLogger(a.logger),
		compare.WithParallelism(a.cfg.Comparison.Parallelism),
		compare.WithProgress(tracker),
	)

	start := time.Now()
	var res delta.Result
	if len(f.components) > 0 {
		res, err = a.compareComponents(ctx, cmp, ref, prof, mask, f.components)
	} else {
		res, err = cmp.CompareBaselines(ctx, ref, prof, mask, a.cfg.Comparison.Force)
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("Comparison finished",
		"reference", ref.Name(),
		"profile", prof.Name(),
		"visibility", mask.String(),
		"state", res.State().String(),
		"duration", time.Since(start).Milliseconds(),
	)
	return &comparison{reference: ref, profile: prof, mask: mask, result: res}, nil
}

// compareComponents runs the named profile components through the scope
// adapter and gathers the leaves under one baseline node.
func (a *app) compareComponents(ctx context.Context, cmp *compare.Comparator, ref, prof *baseline.Baseline,
	mask modifiers.Visibility, ids []string) (delta.Result, error) {
	s := scope.New()
	for _, id := range ids {
		c, ok := prof.Component(id)
		if !ok {
			return delta.Result{}, usageError("component %s is not in baseline %s", id, prof.Name())
		}
		s.Add(scope.ComponentElement{C: c})
	}

	adapter := scope.NewAdapter(cmp, ref,
		scope.WithVisibility(mask),
		scope.WithForce(a.cfg.Comparison.Force),
		scope.WithContinueOnError(a.cfg.Comparison.ContinueOnError),
		scope.WithLogger(a.logger),
	)
	leaves := delta.NewLeafSet()
	if err := adapter.Compare(ctx, s, leaves); err != nil {
		if apierrors.HasCode(err, apierrors.InvalidArgument) {
			return delta.Result{}, err
		}
		return delta.Failed(err), nil
	}
	if adapter.ContainsError() {
		a.logger.Warn("Some elements could not be compared", "components", len(ids))
	}

	g := delta.NewGroup(delta.Fields{
		Key:         ref.Name(),
		ElementType: delta.ElementBaseline,
		Kind:        delta.Changed,
	})
	g.AddAll(leaves.Slice()...)
	return delta.ChangedResult(g.Build()), nil
}

// historyPath resolves the configured database path against --root.
func (a *app) historyPath() string {
	path := a.cfg.Storage.Path
	if path == "" {
		path = storage.DefaultPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.flags.root, path)
}

func (a *app) openHistory() (*storage.DB, error) {
	return storage.Open(a.historyPath(), a.logger)
}

// record stores c in the history database when storage is enabled.
func (a *app) record(ctx context.Context, c *comparison, report []byte, breakingCount int) error {
	if !a.cfg.Storage.Enabled {
		return nil
	}

	h := fingerprint.NewHasher()
	refFP, err := h.HashBaseline(c.reference)
	if err != nil {
		return err
	}
	profFP, err := h.HashBaseline(c.profile)
	if err != nil {
		return err
	}
	if changed := refFP.Changed(profFP); len(changed) > 0 {
		a.logger.Debug("Components with a different surface", "components", changed)
	}

	db, err := a.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()
	runs := storage.NewRunRepository(db)

	visibility := c.mask.String()
	prev, err := runs.LastMatching(ctx, refFP.Baseline, profFP.Baseline, visibility)
	if err != nil {
		return err
	}
	if prev != nil {
		a.logger.Info("Inputs match an earlier run", "run", prev.ID, "state", prev.State)
	}

	run := &storage.Run{
		ReferenceName:        c.reference.Name(),
		ProfileName:          c.profile.Name(),
		ReferenceFingerprint: refFP.Baseline,
		ProfileFingerprint:   profFP.Baseline,
		Visibility:           visibility,
		State:                c.result.State().String(),
		Breaking:             breakingCount,
		Report:               report,
		Components:           componentHashes(refFP, profFP),
	}
	if c.result.IsFailed() {
		run.Error = c.result.Err().Error()
	} else {
		run.Leaves = len(delta.Leaves(c.result.Delta()))
	}
	if err := runs.Record(ctx, run); err != nil {
		return err
	}
	a.logger.Info("Recorded run", "id", run.ID)

	if keep := a.cfg.Storage.Keep; keep > 0 {
		pruned, err := runs.Prune(ctx, keep)
		if err != nil {
			return err
		}
		if pruned > 0 {
			a.logger.Debug("Pruned old runs", "count", pruned)
		}
	}
	return nil
}

func componentHashes(ref, prof *fingerprint.Fingerprint) map[string]storage.ComponentHashes {
	out := make(map[string]storage.ComponentHashes)
	for id, sum := range ref.Components {
		h := out[id]
		h.Reference = sum
		out[id] = h
	}
	for id, sum := range prof.Components {
		h := out[id]
		h.Profile = sum
		out[id] = h
	}
	return out
}
