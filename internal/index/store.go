// Package index builds, persists, and queries the sparse keyword-similarity
// index over the support-log corpus. The index is read-only after build or
// load; an explicit rebuild is serialized behind the store lock.
package index

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"supportrag/internal/domain"
	"supportrag/internal/ingest"
)

// schemaVersion guards the persisted blob layout. A mismatch on load
// triggers a full rebuild instead of a crash.
const schemaVersion = 1

// indexBlob is the single persisted unit: fitted vectorizer state, the
// sparse term matrix, and document metadata.
type indexBlob struct {
	SchemaVersion int
	Vocabulary    map[string]int
	IDF           []float64
	Rows          []SparseVector
	Documents     []domain.Document
}

// Store owns the index and its persisted copy. All read paths take the read
// lock; Build and Rebuild take the write lock.
type Store struct {
	mu        sync.RWMutex
	dataDir   string
	indexPath string
	topK      int
	log       *slog.Logger

	vectorizer *Vectorizer
	rows       []SparseVector
	docs       []domain.Document
}

// NewStore creates a store for the given corpus directory. The persisted
// blob lives at indexPath; an empty path defaults to
// <dataDir>/tfidf_index.gob. topK caps the results per query; values <= 0
// fall back to TopKRetrieve.
func NewStore(dataDir, indexPath string, topK int, log *slog.Logger) *Store {
	if indexPath == "" {
		indexPath = filepath.Join(dataDir, "tfidf_index.gob")
	}
	if topK <= 0 {
		topK = TopKRetrieve
	}
	return &Store{dataDir: dataDir, indexPath: indexPath, topK: topK, log: log}
}

// Open loads the persisted index when present, otherwise builds it from the
// corpus directory. Load failures of any kind fall back to a rebuild and
// never propagate to the caller.
func (s *Store) Open() error {
	if _, err := os.Stat(s.indexPath); err == nil {
		if err := s.load(); err == nil {
			return nil
		} else {
			s.log.Warn("failed to load index cache, rebuilding", slog.Any("error", err))
		}
	}
	return s.Build()
}

// Build scans the corpus directory, fits the vectorizer, and persists the
// result. An empty corpus leaves the store in an empty state without error.
func (s *Store) Build() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked()
}

// Rebuild discards the current index and performs a full build pass. Not on
// the per-query path; callers run it offline or behind this lock.
func (s *Store) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectorizer = nil
	s.rows = nil
	s.docs = nil
	return s.buildLocked()
}

func (s *Store) buildLocked() error {
	s.log.Info("scanning corpus directory", slog.String("dir", s.dataDir))
	if _, err := os.Stat(s.dataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		return nil
	}
	docs, err := ingest.BuildDocuments(s.dataDir, s.log)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		s.log.Warn("no documents found to index")
		return nil
	}

	s.log.Info("indexing documents", slog.Int("count", len(docs)))
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vec := NewVectorizer()
	if err := vec.Fit(texts); err != nil {
		return fmt.Errorf("fit vectorizer: %w", err)
	}
	rows := make([]SparseVector, len(docs))
	for i, text := range texts {
		rows[i] = vec.Transform(text)
	}

	s.vectorizer = vec
	s.rows = rows
	s.docs = docs

	if err := s.saveLocked(); err != nil {
		s.log.Warn("failed to persist index", slog.Any("error", err))
	}
	return nil
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.indexPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(s.indexPath)
	if err != nil {
		return err
	}
	defer f.Close()
	blob := indexBlob{
		SchemaVersion: schemaVersion,
		Vocabulary:    s.vectorizer.Vocabulary,
		IDF:           s.vectorizer.IDF,
		Rows:          s.rows,
		Documents:     s.docs,
	}
	if err := gob.NewEncoder(f).Encode(&blob); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	s.log.Info("index persisted", slog.String("path", s.indexPath), slog.Int("documents", len(s.docs)))
	return nil
}

func (s *Store) load() error {
	f, err := os.Open(s.indexPath)
	if err != nil {
		return err
	}
	defer f.Close()
	var blob indexBlob
	if err := gob.NewDecoder(f).Decode(&blob); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	if blob.SchemaVersion != schemaVersion {
		return fmt.Errorf("index schema version %d, want %d", blob.SchemaVersion, schemaVersion)
	}
	if len(blob.Rows) != len(blob.Documents) {
		return fmt.Errorf("index corrupt: %d rows for %d documents", len(blob.Rows), len(blob.Documents))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectorizer = &Vectorizer{Vocabulary: blob.Vocabulary, IDF: blob.IDF}
	s.rows = blob.Rows
	s.docs = blob.Documents
	s.log.Info("index loaded", slog.Int("documents", len(s.docs)))
	return nil
}

// Status reports whether the index holds data and the document count.
func (s *Store) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 {
		return domain.Status{State: domain.StateEmpty}
	}
	return domain.Status{State: domain.StateReady, DocCount: len(s.docs)}
}
