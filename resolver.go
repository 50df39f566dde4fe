package buildgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/buildgraph/go-buildgraph/graph"
	"github.com/buildgraph/go-buildgraph/label"
)

const defaultMaxConcurrency = 5

// ResolveOptions configures graph resolution behavior.
type ResolveOptions struct {
	// MaxConcurrency bounds the number of packages loaded in parallel.
	// Zero or negative values use the default of 5.
	MaxConcurrency int

	// Logger receives structured debug/info output during resolution.
	// Nil disables logging.
	//
	// slog is used rather than a custom interface so users can plug in
	// any backend (charmbracelet/log, zap, zerolog) via slog handlers.
	Logger *slog.Logger
}

// Resolution is the result of resolving a target's dependency closure.
type Resolution struct {
	// Root is the target resolution started from.
	Root label.Label `json:"root"`

	// Graph is the resolved dependency graph.
	Graph *graph.Graph `json:"-"`

	// BuildOrder is a deterministic topological order: every target
	// appears after all of its dependencies.
	BuildOrder []label.Label `json:"build_order"`

	// Targets maps each resolved label to its declaration. External
	// boundary targets have no declaration and are absent.
	Targets map[label.Label]*Target `json:"-"`
}

// Resolver resolves the transitive dependency closure of BUILD targets.
//
// Resolution proceeds in three phases:
//  1. Traversal: packages are loaded concurrently (bounded worker
//     pool) and every reachable target is recorded together with its
//     dependency edges. Unresolved references fail here.
//  2. Edge validation: visibility, testonly, and runtime-version
//     constraints are checked per edge, in deterministic order.
//  3. Ordering: the graph is checked for cycles and a topological
//     build order is computed.
//
// All errors are fatal to the resolution request and identify the
// offending target and dependency edge.
type Resolver struct {
	loader Loader
	opts   ResolveOptions
}

// NewResolver creates a resolver reading packages from the given loader.
func NewResolver(loader Loader, opts ResolveOptions) *Resolver {
	return &Resolver{loader: loader, opts: opts}
}

// resolvedTarget is a traversal record for one reachable target.
type resolvedTarget struct {
	target   *Target // nil for external boundary nodes
	pkg      *Package
	external bool
}

// depEdge is one dependency edge discovered during traversal.
type depEdge struct {
	from label.Label
	to   label.Label
	raw  string // the dep string as written in the BUILD file
}

// resolveTask asks a worker to resolve one target. consumer is the
// zero Label for the root request.
type resolveTask struct {
	key      label.Label
	consumer label.Label
	raw      string
}

// Resolve resolves the dependency closure of the root target. It is
// safe for concurrent use and respects context cancellation.
func (r *Resolver) Resolve(ctx context.Context, root label.Label) (*Resolution, error) {
	if root.IsEmpty() {
		return nil, fmt.Errorf("root target label is empty")
	}
	logger := r.logger()
	logger.Debug("resolution started", "root", root.String())

	targets := make(map[label.Label]*resolvedTarget)
	var edges []depEdge
	if err := r.traverse(ctx, root, targets, &edges); err != nil {
		return nil, err
	}
	logger.Debug("traversal complete", "targets", len(targets), "edges", len(edges))

	g := buildGraph(root, targets, edges)

	if err := r.validateEdges(targets, edges); err != nil {
		return nil, err
	}

	if cycles := g.FindCycles(); len(cycles) > 0 {
		return nil, &DependencyCycleError{Cycle: cycles[0]}
	}

	order, err := g.BuildOrder()
	if err != nil {
		return nil, err
	}
	logger.Debug("resolution complete", "build_order_len", len(order))

	res := &Resolution{
		Root:       root,
		Graph:      g,
		BuildOrder: order,
		Targets:    make(map[label.Label]*Target, len(targets)),
	}
	for key, rt := range targets {
		if rt.target != nil {
			res.Targets[key] = rt.target
		}
	}
	return res, nil
}

// traverse loads every reachable package with a bounded worker pool and
// records reachable targets and dependency edges.
func (r *Resolver) traverse(ctx context.Context, root label.Label, targets map[label.Label]*resolvedTarget, edges *[]depEdge) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var errOnce sync.Once
	var firstErr error

	setErr := func(err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	maxWorkers := r.opts.MaxConcurrency
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxConcurrency
	}

	tasks := make(chan resolveTask, maxWorkers)
	var tasksWG sync.WaitGroup
	var workersWG sync.WaitGroup
	var visiting sync.Map

	enqueue := func(task resolveTask) {
		if ctx.Err() != nil {
			return
		}
		if _, visited := visiting.LoadOrStore(task.key, struct{}{}); visited {
			return
		}
		tasksWG.Add(1)
		go func() {
			select {
			case tasks <- task:
			case <-ctx.Done():
				tasksWG.Done()
			}
		}()
	}

	process := func(task resolveTask) {
		defer tasksWG.Done()
		if ctx.Err() != nil {
			return
		}

		rt, err := r.lookup(task)
		if err != nil {
			setErr(err)
			return
		}

		mu.Lock()
		targets[task.key] = rt
		mu.Unlock()

		if rt.external {
			return
		}

		for _, dep := range rt.target.Deps {
			depLabel, err := label.ParseRelative(dep, task.key.Pkg)
			if err != nil {
				setErr(&UnresolvedDependencyError{Consumer: task.key, Dep: dep, Reason: err.Error(), Err: err})
				return
			}
			mu.Lock()
			*edges = append(*edges, depEdge{from: task.key, to: depLabel, raw: dep})
			mu.Unlock()
			enqueue(resolveTask{key: depLabel, consumer: task.key, raw: dep})
		}
	}

	// Workers drain the channel until it closes; process no-ops once
	// the context is canceled, so every enqueued task still reaches a
	// matching tasksWG.Done.
	workersWG.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go func() {
			defer workersWG.Done()
			for task := range tasks {
				process(task)
			}
		}()
	}

	enqueue(resolveTask{key: root})
	tasksWG.Wait()
	close(tasks)
	workersWG.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// lookup resolves one task to a target declaration or an external
// boundary node.
func (r *Resolver) lookup(task resolveTask) (*resolvedTarget, error) {
	if task.key.IsExternal() {
		if r.loader.HasExternal(task.key.Repo) {
			return &resolvedTarget{external: true}, nil
		}
		return nil, &UnresolvedDependencyError{
			Consumer: task.consumer,
			Dep:      task.raw,
			Reason:   fmt.Sprintf("external repository @%s is not declared", task.key.Repo),
		}
	}

	pkg, err := r.loader.Package(task.key.Pkg)
	if err != nil {
		if task.consumer.IsEmpty() {
			return nil, err
		}
		return nil, &UnresolvedDependencyError{Consumer: task.consumer, Dep: task.raw, Reason: err.Error(), Err: err}
	}

	target := pkg.Target(task.key.Name)
	if target == nil {
		reason := "target not declared"
		if pkg.ExportsFile(task.key.Name) {
			reason = fmt.Sprintf("%q is an exported file, not a rule", task.key.Name)
		}
		if task.consumer.IsEmpty() {
			return nil, fmt.Errorf("target %s: %w", task.key, ErrTargetNotFound)
		}
		return nil, &UnresolvedDependencyError{Consumer: task.consumer, Dep: task.raw, Reason: reason, Err: ErrTargetNotFound}
	}

	return &resolvedTarget{target: target, pkg: pkg}, nil
}

// validateEdges applies visibility, testonly, and runtime-version
// checks to every edge, in deterministic order.
func (r *Resolver) validateEdges(targets map[label.Label]*resolvedTarget, edges []depEdge) error {
	sorted := make([]depEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].from != sorted[j].from {
			return sorted[i].from.String() < sorted[j].from.String()
		}
		return sorted[i].to.String() < sorted[j].to.String()
	})

	for _, e := range sorted {
		consumer := targets[e.from]
		dep := targets[e.to]
		if consumer == nil || dep == nil || consumer.external || dep.external {
			continue
		}

		if err := checkVisibility(e, consumer, dep); err != nil {
			return err
		}
		if dep.target.TestOnly && !consumer.target.TestOnly && !consumer.target.Kind.IsTest() {
			return &TestOnlyError{Consumer: e.from, Dep: e.to}
		}
		if err := checkVersions(e, consumer.target, dep.target); err != nil {
			return err
		}
	}
	return nil
}

// checkVisibility enforces the dependency target's effective visibility
// against the consumer's package. Same-package edges are always allowed.
func checkVisibility(e depEdge, consumer, dep *resolvedTarget) error {
	if e.from.Pkg == e.to.Pkg && e.from.Repo == e.to.Repo {
		return nil
	}

	entries := dep.target.Visibility
	if len(entries) == 0 {
		entries = dep.pkg.DefaultVisibility
	}

	// Validate already reports malformed patterns; here they simply
	// grant nothing.
	spec, err := label.ParseSpec(entries)
	if err != nil || !spec.Allows(e.from.Pkg) {
		return &VisibilityError{Consumer: e.from, Dep: e.to, Visibility: entries}
	}
	return nil
}

// checkVersions enforces runtime-version compatibility along an edge:
// every runtime the consumer is built for must be supported by the
// dependency's declared srcs_version.
func checkVersions(e depEdge, consumer, dep *Target) error {
	for _, runtime := range requiredRuntimes(consumer) {
		if !dep.SrcsVersion.Supports(runtime) {
			return &VersionMismatchError{
				Consumer:       e.from,
				Runtime:        runtime,
				Dep:            e.to,
				DepSrcsVersion: dep.SrcsVersion,
			}
		}
	}
	return nil
}

// requiredRuntimes returns the runtime major versions a target is built
// for. Executable targets are gated by python_version (defaulting to
// PY3); libraries require every runtime their own srcs_version claims.
func requiredRuntimes(t *Target) []PythonVersion {
	if t.Kind.IsExecutable() {
		if t.PythonVersion == PyDefault {
			return []PythonVersion{PY3}
		}
		return []PythonVersion{t.PythonVersion}
	}
	switch t.SrcsVersion {
	case SrcsPY2, SrcsPY2ONLY:
		return []PythonVersion{PY2}
	case SrcsPY3, SrcsPY3ONLY:
		return []PythonVersion{PY3}
	}
	return []PythonVersion{PY2, PY3}
}

// buildGraph assembles the graph from traversal records.
func buildGraph(root label.Label, targets map[label.Label]*resolvedTarget, edges []depEdge) *graph.Graph {
	g := graph.New(root)
	for key, rt := range targets {
		kind := string(RuleExternal)
		testOnly := false
		if rt.target != nil {
			kind = string(rt.target.Kind)
			testOnly = rt.target.TestOnly
		}
		g.AddNode(key, kind, testOnly, rt.external)
	}
	for _, e := range edges {
		g.AddEdge(e.from, e.to)
	}
	return g
}

func (r *Resolver) logger() *slog.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return slog.New(slog.DiscardHandler)
}
