// Package session is the orchestration layer tying together the visitor,
// chunk store, generator, mutators, minimizers, and cmplog stage into the
// single-threaded cooperative pipeline described by spec.md §2's data flow
// and §5's concurrency model. Grounded on internal/ingest/engine.go's
// Engine struct — one long-lived owner of its collaborators, driving a
// single-threaded pass over a corpus.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/dustin/go-humanize"
	billy "github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/chunkstore"
	"github.com/gramfuzz/engine/internal/cmplog"
	"github.com/gramfuzz/engine/internal/executor"
	"github.com/gramfuzz/engine/internal/generate"
	"github.com/gramfuzz/engine/internal/journal"
	"github.com/gramfuzz/engine/internal/minimize"
	"github.com/gramfuzz/engine/internal/mutate"
	"github.com/gramfuzz/engine/internal/visitor"
)

// Entry is one corpus testcase: its value, its observed coverage, and how
// many applied mutations RunMutation has counted against it. RunMinimize
// and RunCmplog run only while that count is zero and do not change it.
type Entry struct {
	Value          api.Node
	Coverage       *executor.CoverageIndexSet
	ScheduledCount int
}

// Session owns the Visitor and chunk store exclusively for its lifetime
// (spec.md §5) and drives generation, minimization, cmplog, and mutation
// over an in-memory corpus.
type Session struct {
	RunID  uuid.UUID
	Config Config
	Log    *slog.Logger

	visitor *visitor.Visitor
	store   *chunkstore.Store
	journal *journal.Journal
	exe     executor.Executor
	root    api.Generator

	genReplace  *mutate.GenerateReplaceMutator
	splice      *mutate.SpliceMutator
	spliceAppnd *mutate.SpliceAppendMutator
	cmplogStage *cmplog.Stage
	iterMin     *minimize.IterableMinimizer
	recurMin    *minimize.RecursiveMinimizer

	corpus []*Entry
}

// minimizeExecutor adapts an executor.Executor to the narrower surface
// internal/minimize needs: run a value, report its coverage-index bitmap.
type minimizeExecutor struct {
	exe executor.Executor
}

func (a minimizeExecutor) Run(v api.Node) *roaring.Bitmap {
	result, err := a.exe.Run(v)
	Invariant(err == nil, "executor run failed during minimization: %v", err)
	return result.Coverage.Bitmap()
}

// New builds a Session: a visitor seeded from cfg, a chunk store rooted at
// cfg.OutputDir on fs, a journal at <output>/journal.db, and the mutator/
// cmplog collaborators wired against that store.
func New(cfg Config, fs billy.Filesystem, exe executor.Executor, root api.Generator) (*Session, error) {
	runID := uuid.New()
	depth := visitor.DepthInfo{Expand: cfg.DepthExpand, Generate: cfg.DepthGen, Iterate: cfg.DepthIter}
	v := visitor.New(cfg.Seed, depth)
	store := chunkstore.New(fs, cfg.OutputDir)

	j, err := journal.Open(cfg.OutputDir + "/journal.db")
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	log := slog.Default().With("run_id", runID.String())
	minExe := minimizeExecutor{exe: exe}

	return &Session{
		RunID:       runID,
		Config:      cfg,
		Log:         log,
		visitor:     v,
		store:       store,
		journal:     j,
		exe:         exe,
		root:        root,
		genReplace:  &mutate.GenerateReplaceMutator{V: v},
		splice:      &mutate.SpliceMutator{V: v, Store: store},
		spliceAppnd: &mutate.SpliceAppendMutator{V: v, Store: store},
		cmplogStage: &cmplog.Stage{V: v, Store: store},
		iterMin:     &minimize.IterableMinimizer{V: v, Exe: minExe},
		recurMin:    &minimize.RecursiveMinimizer{V: v, Exe: minExe},
	}, nil
}

// Seed generates n fresh root values, evaluates each, and registers it into
// both the corpus and the chunk store.
func (s *Session) Seed(n int) error {
	for i := 0; i < n; i++ {
		value := generate.Generate(s.visitor, s.root)
		result, err := s.exe.Run(value)
		if err != nil {
			return fmt.Errorf("session: seed run %d: %w", i, err)
		}
		s.store.RegisterInput(value)
		s.corpus = append(s.corpus, &Entry{Value: value, Coverage: result.Coverage})
		if err := s.journal.RecordInput(string(value.TypeID()), len(value.Serialized()), time.Now()); err != nil {
			s.Log.Warn("journal write failed", "error", err)
		}
	}
	s.Log.Info("seeded corpus", "count", n, "bytes_estimate", humanize.Bytes(s.estimateBytes()))
	return nil
}

func (s *Session) estimateBytes() uint64 {
	var total uint64
	for _, e := range s.corpus {
		for _, chunk := range e.Value.Serialized() {
			total += uint64(len(chunk.Bytes))
		}
	}
	return total
}

// RunCmplog runs the cmplog stage against entry's value if it has never
// been scheduled before, submitting each candidate to the executor and
// registering interesting ones back into the corpus.
func (s *Session) RunCmplog(entry *Entry, trace []cmplog.TraceEntry) error {
	if entry.ScheduledCount != 0 {
		return nil
	}
	candidates, err := s.cmplogStage.Run(entry.Value, trace)
	if err != nil {
		return fmt.Errorf("session: cmplog: %w", err)
	}
	for _, c := range candidates {
		entry.Value.Mutate(api.Splice{Bytes: c.Bytes}, s.visitor, c.Path)
		result, err := s.exe.Run(entry.Value)
		if err != nil {
			return fmt.Errorf("session: cmplog candidate run: %w", err)
		}
		if result.Interesting {
			s.store.RegisterInput(entry.Value)
			s.corpus = append(s.corpus, &Entry{Value: entry.Value, Coverage: result.Coverage})
		}
		if err := s.journal.RecordCmpHit(fmt.Sprint(c.Path), time.Now()); err != nil {
			s.Log.Warn("journal write failed", "error", err)
		}
	}
	return nil
}

// RunMutation picks one of the three mutators uniformly and applies it to
// entry's value, evaluating and registering the result if interesting.
func (s *Session) RunMutation(entry *Entry) (mutate.MutationResult, error) {
	choice := s.visitor.RandomRange(0, 2)
	var m mutate.Mutator
	switch choice {
	case 0:
		m = s.genReplace
	case 1:
		m = s.splice
	default:
		m = s.spliceAppnd
	}
	result, err := m.Mutate(entry.Value)
	if err != nil {
		return result, fmt.Errorf("session: mutate: %w", err)
	}
	if result.Outcome != mutate.Applied {
		return result, nil
	}
	evalResult, err := s.exe.Run(entry.Value)
	if err != nil {
		return result, fmt.Errorf("session: mutation candidate run: %w", err)
	}
	if evalResult.Interesting {
		s.store.RegisterInput(entry.Value)
	}
	entry.ScheduledCount++
	return result, nil
}

// RunMinimize shrinks entry's value in place via both minimizers, only
// when it has never been scheduled before (spec.md §4.H).
func (s *Session) RunMinimize(entry *Entry) {
	if entry.ScheduledCount != 0 {
		return
	}
	baseline := entry.Coverage.Bitmap()
	entry.Value = s.iterMin.Minimize(entry.Value, baseline)
	entry.Value = s.recurMin.Minimize(entry.Value, baseline)
	if err := s.journal.RecordMinimization("iterable+recursive", true, time.Now()); err != nil {
		s.Log.Warn("journal write failed", "error", err)
	}
}

// Corpus returns the live corpus slice.
func (s *Session) Corpus() []*Entry { return s.corpus }

// RegisterString extends the visitor's learned string pool. The one hook a
// caller-side dictionary or extracted-token loader feeds into (spec.md
// §6's `-x`/`-S` flags); loading the source itself is the caller's job.
func (s *Session) RegisterString(str string) {
	s.visitor.RegisterString(str)
}

// Close flushes and closes the session's journal.
func (s *Session) Close() error {
	return s.journal.Close()
}
