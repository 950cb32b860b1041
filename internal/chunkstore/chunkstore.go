// Package chunkstore is the content-addressed, per-TypeID map of
// previously-seen serialized sub-values used by the splice family of
// mutators, plus the interesting-paths set accumulated during the cmplog
// stage. Grounded on spec.md §4.E and, for its filesystem-abstraction
// style, on internal/graph/sqlite_graph.go's pattern of keeping storage
// behind a swappable interface so tests never touch real disk.
package chunkstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gramfuzz/engine/api"
)

const cacheSize = 4096

// Store is the chunk store described in spec.md §4.E: content-addressed
// chunks under chunks/<TypeID>/<hex-sha256>, cmp-derived chunks under the
// parallel cmps/ tree, and an in-memory interesting-paths set.
type Store struct {
	fs   billy.Filesystem
	root string

	mu          sync.Mutex
	byType      map[api.TypeID][]string
	cmpsByType  map[api.TypeID][]string
	interesting map[string]api.Path
	cache       *lru.Cache[string, []byte]
}

// New builds a Store rooted at root on fs. Pass memfs.New() in tests and
// osfs.New(dir) for a real run.
func New(fs billy.Filesystem, root string) *Store {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: building LRU cache: %v", err))
	}
	return &Store{
		fs:          fs,
		root:        root,
		byType:      make(map[api.TypeID][]string),
		cmpsByType:  make(map[api.TypeID][]string),
		interesting: make(map[string]api.Path),
		cache:       cache,
	}
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// write places data at dir/<hash>, returning its path. A pre-existing file
// at that path is left untouched (content addressing already guarantees
// identical bytes); "directory already exists" is not an error.
func (s *Store) write(dir string, typeID api.TypeID, data []byte) string {
	hash := hashOf(data)
	typeDir := path.Join(s.root, dir, string(typeID))
	if err := s.fs.MkdirAll(typeDir, 0o755); err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: mkdir %s: %v", typeDir, err))
	}
	p := path.Join(typeDir, hash)
	if _, err := s.fs.Stat(p); err == nil {
		return p
	}
	f, err := s.fs.Create(p)
	if err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: create %s: %v", p, err))
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: write %s: %v", p, err))
	}
	return p
}

func appendUnique(paths []string, p string) []string {
	for _, existing := range paths {
		if existing == p {
			return paths
		}
	}
	return append(paths, p)
}

// RegisterInput writes every serialized chunk of value under chunks/, and
// indexes each path by its TypeID. Idempotent: registering the same value
// twice leaves the store and its in-memory index unchanged in size (P5).
func (s *Store) RegisterInput(value api.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range value.Serialized() {
		p := s.write("chunks", chunk.TypeID, chunk.Bytes)
		s.byType[chunk.TypeID] = appendUnique(s.byType[chunk.TypeID], p)
	}
}

// AddCmps writes the serialized counterpart of each cmp match under cmps/,
// indexes it by the trace's leaf TypeID, and extends the interesting-paths
// set by the trace's integer-index projection.
func (s *Store) AddCmps(matches []api.CmpMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range matches {
		leaf, ok := m.Trace.Leaf()
		if !ok {
			continue
		}
		p := s.write("cmps", leaf.TypeID, m.Bytes)
		s.cmpsByType[leaf.TypeID] = appendUnique(s.cmpsByType[leaf.TypeID], p)

		idxPath := m.Trace.IndexPath()
		s.interesting[pathKey(idxPath)] = idxPath
	}
}

func pathKey(p api.Path) string {
	out := make([]byte, 0, len(p)*4)
	for _, i := range p {
		out = append(out, []byte(fmt.Sprintf("%d,", i))...)
	}
	return string(out)
}

// GetInputsForType returns every chunk path registered under typeID via
// RegisterInput.
func (s *Store) GetInputsForType(typeID api.TypeID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.byType[typeID]...)
}

// GetCmpsForPath returns every cmp-derived chunk path registered under
// typeID via AddCmps. Despite the name (kept for parity with spec.md §4.E's
// get_cmps_for_path), lookup is by TypeID: the cmps/ tree is indexed the
// same way the chunks/ tree is, by the leaf's own type.
func (s *Store) GetCmpsForPath(typeID api.TypeID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cmpsByType[typeID]...)
}

// InterestingNodes returns the accumulated set of interesting index paths,
// in a stable order so callers get deterministic iteration.
func (s *Store) InterestingNodes() []api.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Path, 0, len(s.interesting))
	keys := make([]string, 0, len(s.interesting))
	for k := range s.interesting {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, s.interesting[k])
	}
	return out
}

// Read fetches the bytes at a chunk path, checking the LRU cache first and
// falling back to the filesystem on a miss.
func (s *Store) Read(chunkPath string) []byte {
	if data, ok := s.cache.Get(chunkPath); ok {
		return data
	}
	f, err := s.fs.Open(chunkPath)
	if err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: open %s: %v", chunkPath, err))
	}
	defer f.Close()
	stat, err := s.fs.Stat(chunkPath)
	if err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: stat %s: %v", chunkPath, err))
	}
	data := make([]byte, stat.Size())
	if _, err := f.Read(data); err != nil {
		panic(fmt.Sprintf("invariant: chunkstore: read %s: %v", chunkPath, err))
	}
	s.cache.Add(chunkPath, data)
	return data
}
