// Package driver implements component D: the orchestrator that takes a
// root file path through Lexer→Resolver→Parser(pass1)→Parser(pass2)→
// Analyzer, per spec.md §2's data-flow paragraph, and hands back a
// frozen AST set plus namespace map for downstream consumers (spec.md
// §1: code generation, linking, LSP and on-disk caching are external).
package driver

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/flint-lang/flintc/analyzer"
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/errors"
	"github.com/flint-lang/flintc/fhash"
	"github.com/flint-lang/flintc/namespace"
	"github.com/flint-lang/flintc/registry"
	"github.com/flint-lang/flintc/resolver"
)

// Options mirrors the command surface of spec.md §6 exactly: the three
// Resolver knobs plus --test.
type Options struct {
	// Parallel drives worker-pool scheduling for both Resolver expansion
	// and pass-2 body parsing (spec.md §5's single `parse_parallel` knob).
	Parallel bool

	// MinimalTree requests the Resolver's LSP shortcut: only aliased
	// imports recurse transitively.
	MinimalTree bool

	// MaxDepth caps Resolver rounds; zero means unbounded.
	MaxDepth uint64

	// Test, when set, parses and retains test bodies for pass 2
	// (`--test`); a plain `check` run leaves them unparsed.
	Test bool

	// Logger receives one Debug line per phase transition and one Warn
	// line per recovered-but-reported error. A nil Logger disables
	// logging (slog.New(slog.DiscardHandler) would also work, but nil
	// keeps zero-configuration callers — e.g. tests — dependency-free).
	Logger *slog.Logger
}

// Result is the frozen output of one compile run: every parsed File
// keyed by hash, the namespace map built alongside it, and the
// dependency graph the Resolver produced.
type Result struct {
	Files map[fhash.Hash]*ast.File
	NSMap *namespace.Map
	Regs  *registry.Registries
	Graph *resolver.Graph
	RunID string
}

// Compile runs every phase of spec.md §2's data flow against rootPath
// and returns the frozen Result plus every diagnostic collected along
// the way (parse, resolve, and semantic errors are all appended to one
// list; spec.md §7 does not ask the Driver to abort early on a single
// file's error — it keeps going and reports everything it found).
func Compile(rootPath string, opts Options) (*Result, errors.List) {
	runID := uuid.New().String()
	log := opts.Logger
	if log == nil {
		log = slog.New(discardHandler{})
	}
	log = log.With("run_id", runID)

	regs := registry.New()
	nsMap := namespace.NewMap()

	log.Debug("resolve: starting", "root", rootPath, "parallel", opts.Parallel)
	res, errs := resolver.CreateDependencyGraph(rootPath, regs, nsMap, resolver.Options{
		Parallel:    opts.Parallel,
		MinimalTree: opts.MinimalTree,
		MaxDepth:    opts.MaxDepth,
	})
	for _, e := range errs {
		log.Warn("resolve: recovered error", "error", e.Error())
	}
	if res == nil {
		return nil, errs
	}
	log.Debug("resolve: done", "files", len(res.PreFiles))

	log.Debug("pass2: starting", "include_tests", opts.Test)
	pass2Errs := runPass2(res, opts)
	for _, e := range pass2Errs {
		log.Warn("pass2: recovered error", "error", e.Error())
	}
	errs = append(errs, pass2Errs...)
	log.Debug("pass2: done")

	files := make(map[fhash.Hash]*ast.File, len(res.PreFiles))
	for h, pf := range res.PreFiles {
		files[h] = pf.File
	}

	log.Debug("analyze: starting")
	analyzeErrs := runAnalyze(files, regs, nsMap, opts)
	for _, e := range analyzeErrs {
		log.Warn("analyze: recovered error", "error", e.Error())
	}
	errs = append(errs, analyzeErrs...)
	log.Debug("analyze: done")

	return &Result{Files: files, NSMap: nsMap, Regs: regs, Graph: res.Graph, RunID: runID}, errs
}

// bottomUpLayers peels the dependency graph's tips (spec.md §4.R:
// "get_dependency_graph_tips computes the set of leaves... which the
// driver uses as the work queue for pass 2 in bottom-up order") one
// round at a time: each returned layer is itself a tip set of the
// not-yet-peeled remainder, so ranging over the layers in order visits
// every file in bottom-up dependency order. A back-edge (Owning: false)
// never blocks a node from being a tip, so a cycle's members surface in
// the same layer that closes it rather than deadlocking the peel.
func bottomUpLayers(res *resolver.Result) [][]fhash.Hash {
	nodes := make(map[fhash.Hash]*resolver.DepNode, len(res.PreFiles))
	for h := range res.PreFiles {
		if n, ok := res.Graph.Node(h); ok {
			nodes[h] = n
		}
	}

	done := make(map[fhash.Hash]bool, len(nodes))
	var layers [][]fhash.Hash
	for len(done) < len(nodes) {
		var layer []fhash.Hash
		for h, n := range nodes {
			if done[h] {
				continue
			}
			isTip := true
			for _, e := range n.Edges {
				if e.Owning && !done[e.To.FileHash] {
					if _, tracked := nodes[e.To.FileHash]; tracked {
						isTip = false
						break
					}
				}
			}
			if isTip {
				layer = append(layer, h)
			}
		}
		if len(layer) == 0 {
			// every remaining node's owning edges point only at other
			// remaining, undone nodes: this can't happen since Owning
			// edges are acyclic by construction, but guard against an
			// infinite loop rather than assume it.
			for h := range nodes {
				if !done[h] {
					layer = append(layer, h)
				}
			}
		}
		for _, h := range layer {
			done[h] = true
		}
		layers = append(layers, layer)
	}
	return layers
}

// runPass2 drives parser.Pass2 across every discovered file, serially or
// over a GOMAXPROCS-sized worker pool, processing the dependency graph's
// tips-derived layers in bottom-up order (spec.md §4.R). Pass 2 itself
// has no real cross-file ordering dependency — every signature was
// already registered globally in pass 1 — but following the same
// work-queue discipline original_source uses keeps this a faithful
// translation rather than an arbitrary-order shortcut.
func runPass2(res *resolver.Result, opts Options) errors.List {
	var mu sync.Mutex
	var errs errors.List

	run := func(h fhash.Hash) {
		p := res.Parsers[h]
		pf := res.PreFiles[h]
		if p == nil || pf == nil {
			return
		}
		ferrs := p.Pass2(pf, opts.Test)
		if len(ferrs) > 0 {
			mu.Lock()
			errs = append(errs, ferrs...)
			mu.Unlock()
		}
	}

	layers := bottomUpLayers(res)

	if !opts.Parallel {
		for _, layer := range layers {
			for _, h := range layer {
				run(h)
			}
		}
		return errs
	}

	for _, layer := range layers {
		workers := runtime.GOMAXPROCS(0)
		if workers > len(layer) {
			workers = len(layer)
		}
		if workers < 1 {
			workers = 1
		}
		items := make(chan fhash.Hash, len(layer))
		for _, h := range layer {
			items <- h
		}
		close(items)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for h := range items {
					run(h)
				}
			}()
		}
		wg.Wait()
	}
	return errs
}

// runAnalyze walks every file with a fresh Analyzer (spec.md §5: "it may
// itself be parallelized per file, read-only walk"), sharing regs/nsMap
// for lookups only; an Analyzer writes to the AST only to fill in a
// VariableExpr's missing Type.
func runAnalyze(files map[fhash.Hash]*ast.File, regs *registry.Registries, nsMap *namespace.Map, opts Options) errors.List {
	var mu sync.Mutex
	var errs errors.List

	run := func(f *ast.File) {
		a := analyzer.New(regs, nsMap)
		ferrs := a.AnalyzeFile(f)
		if len(ferrs) > 0 {
			mu.Lock()
			errs = append(errs, ferrs...)
			mu.Unlock()
		}
	}

	if !opts.Parallel {
		for _, f := range files {
			run(f)
		}
		return errs
	}

	fileList := make([]*ast.File, 0, len(files))
	for _, f := range files {
		fileList = append(fileList, f)
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(fileList) {
		workers = len(fileList)
	}
	if workers < 1 {
		workers = 1
	}
	items := make(chan *ast.File, len(fileList))
	for _, f := range fileList {
		items <- f
	}
	close(items)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range items {
				run(f)
			}
		}()
	}
	wg.Wait()
	return errs
}

// discardHandler is a slog.Handler that drops every record, used when a
// caller supplies no Logger (the Go 1.21 stdlib this module targets
// predates slog.DiscardHandler, added in 1.24).
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
