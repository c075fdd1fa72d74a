package resolver

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/errors"
	"github.com/flint-lang/flintc/fhash"
	"github.com/flint-lang/flintc/namespace"
	"github.com/flint-lang/flintc/parser"
	"github.com/flint-lang/flintc/registry"
	"github.com/flint-lang/flintc/token"
)

// Options controls the three resolver knobs spec.md §6's command surface
// names: --parallel, --minimal-tree, --max-depth.
type Options struct {
	// Parallel drives create_dependency_graph's round scheduling on a
	// bounded worker pool instead of serially.
	Parallel bool

	// MinimalTree, when true, only recurses into aliased imports — the
	// LSP shortcut of spec.md §4.R point 5 ("only parse aliased imports
	// transitively... trading completeness for speed").
	MinimalTree bool

	// MaxDepth caps how many rounds create_dependency_graph runs before
	// giving up (spec.md §4.R point 4); zero means unbounded.
	MaxDepth uint64
}

// Result is what CreateDependencyGraph hands back to the Driver: the
// graph itself, every file's PreFile (pass-1 output), and the Parser
// instance that produced it — keyed by hash, ready to feed into Pass2
// once every round has completed (spec.md §2's "After pass 1 globally
// completes, pass 2 parses every stashed body"). The Parser must be the
// same bound instance pass-1 used, since Pass2's body-parsing reuses its
// file/Namespace/imports state.
type Result struct {
	Graph    *Graph
	PreFiles map[fhash.Hash]*parser.PreFile
	Parsers  map[fhash.Hash]*parser.Parser
}

// CreateDependencyGraph parses rootPath, follows every import
// breadth-first, and returns the graph plus the PreFile for every
// discovered file — the Go counterpart of original_source's
// Resolver::create_dependency_graph. Each round's newly discovered files
// are processed concurrently when opts.Parallel is set, deduplicating
// within the round exactly as spec.md §4.R asks ("A dependency
// encountered twice in the same round must be deduplicated").
func CreateDependencyGraph(rootPath string, regs *registry.Registries, nsMap *namespace.Map, opts Options) (*Result, errors.List) {
	var errs errors.List

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		errs = append(errs, errors.Newf(errors.Resolve, token.NoPos, "cannot resolve root file %q: %v", rootPath, err))
		return nil, errs
	}

	graph := newGraph()
	preFiles := make(map[fhash.Hash]*parser.PreFile)
	parsers := make(map[fhash.Hash]*parser.Parser)
	var preFilesMu sync.Mutex

	rootHash := fhash.Of(absRoot)
	graph.get(rootHash, absRoot)

	// round holds the absolute paths to process this round, deduplicated
	// by hash (spec.md: "A dependency encountered twice in the same
	// round must be deduplicated").
	round := map[fhash.Hash]string{rootHash: absRoot}

	for depth := uint64(0); len(round) > 0; depth++ {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			errs = append(errs, errors.Newf(errors.Resolve, token.NoPos, "dependency graph exceeds max depth %d", opts.MaxDepth))
			break
		}

		next := make(map[fhash.Hash]string)
		var nextMu sync.Mutex

		process := func(h fhash.Hash, absPath string) {
			pf, p, targets, ferrs := pass1File(h, absPath, regs, nsMap)
			if len(ferrs) > 0 {
				preFilesMu.Lock()
				errs = append(errs, ferrs...)
				preFilesMu.Unlock()
			}
			if pf != nil {
				preFilesMu.Lock()
				preFiles[h] = pf
				parsers[h] = p
				preFilesMu.Unlock()
			}

			from, _ := graph.get(h, absPath)
			for _, t := range targets {
				if t.isCore {
					continue // core modules are a fixed catalog, not a file dependency
				}
				if opts.MinimalTree && !t.isAlias {
					continue // LSP shortcut: non-aliased imports become shallow references
				}
				targetHash := fhash.Of(t.absPath)
				t.imp.TargetHash = uint64(targetHash)

				to, created := graph.get(targetHash, t.absPath)
				graph.addEdge(from, to, created)
				if created {
					nextMu.Lock()
					next[targetHash] = t.absPath
					nextMu.Unlock()
				}
			}
		}

		if opts.Parallel {
			runRoundParallel(round, process)
		} else {
			for h, p := range round {
				process(h, p)
			}
		}

		round = next
	}

	return &Result{Graph: graph, PreFiles: preFiles, Parsers: parsers}, errs
}

// runRoundParallel drives one round's files across a worker pool sized
// to GOMAXPROCS, matching the teacher's own lack of a dedicated
// worker-pool library (see DESIGN.md): plain goroutines gated by a
// bounded channel, joined by a WaitGroup, mirror
// process_dependencies_parallel's "process the next dependencies in
// parallel" without pulling in a pool package no example repo uses.
func runRoundParallel(round map[fhash.Hash]string, process func(fhash.Hash, string)) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(round) {
		workers = len(round)
	}
	type item struct {
		h fhash.Hash
		p string
	}
	items := make(chan item, len(round))
	for h, p := range round {
		items <- item{h, p}
	}
	close(items)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range items {
				process(it.h, it.p)
			}
		}()
	}
	wg.Wait()
}

// pass1File reads absPath, runs the Lexer and the Parser's pass 1 over
// it, and returns its PreFile, the bound Parser that produced it (needed
// by Pass2's body parsing), and its resolved import targets.
func pass1File(h fhash.Hash, absPath string, regs *registry.Registries, nsMap *namespace.Map) (*parser.PreFile, *parser.Parser, []importTarget, errors.List) {
	var errs errors.List

	src, err := os.ReadFile(absPath)
	if err != nil {
		errs = append(errs, errors.Newf(errors.Resolve, token.NoPos, "cannot read %q: %v", absPath, err))
		return nil, nil, nil, errs
	}

	file := token.NewFile(absPath, src)
	p := parser.New(file, src, regs, nsMap)

	pf, err := p.Pass1()
	errs = append(errs, p.Errors()...)
	if err != nil {
		errs = append(errs, errors.Newf(errors.Parse, token.NoPos, "pass 1 failed for %q: %v", absPath, err))
		return nil, nil, nil, errs
	}

	regs.Files.IDOf(h)

	dir := filepath.Dir(absPath)
	var targets []importTarget
	for _, imp := range importsOf(pf.File) {
		if imp.IsCore {
			targets = append(targets, importTarget{imp: imp, isCore: true})
			continue
		}
		path := imp.Path
		if filepath.Ext(path) == "" {
			path += ".flint"
		}
		abs := path
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(dir, path)
		}
		targets = append(targets, importTarget{
			imp:     imp,
			absPath: filepath.Clean(abs),
			isAlias: imp.Alias != "",
		})
	}

	return pf, p, targets, errs
}

func importsOf(f *ast.File) []*ast.ImportDecl {
	var out []*ast.ImportDecl
	for _, d := range f.Definitions {
		if imp, ok := d.(*ast.ImportDecl); ok {
			out = append(out, imp)
		}
	}
	return out
}
