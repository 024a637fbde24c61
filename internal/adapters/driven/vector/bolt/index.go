// Package bolt provides a persistent vector index backed by bbolt.
//
// The index stores (vector, metadata) pairs keyed by a monotonically
// increasing sequence number and answers top-k queries by brute-force
// cosine similarity. bbolt's single-writer/concurrent-reader
// transactions give searches a consistent snapshot while inserts and
// deletes are in flight.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")
)

// openTimeout bounds how long bbolt waits for the file lock.
const openTimeout = 5 * time.Second

// itemMeta is the stored metadata record for one indexed item.
type itemMeta struct {
	ID           string `json:"id"`
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	Content      string `json:"content"`
	ChunkIndex   int    `json:"chunk_index"`
}

// Index is a bbolt-backed vector index. Storage is created lazily on
// the first EnsureInitialized call; reopening an existing file reuses
// its contents.
type Index struct {
	mu   sync.RWMutex
	path string
	db   *bbolt.DB
}

// NewIndex creates an index handle for the given file path.
// No storage is touched until EnsureInitialized is called.
func NewIndex(path string) *Index {
	return &Index{path: path}
}

// EnsureInitialized opens (creating if necessary) the index storage.
// Idempotent: calling it on an open index is a no-op, and reopening an
// existing file neither duplicates nor destroys its contents.
func (idx *Index) EnsureInitialized(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(idx.path), 0700); err != nil {
		return storageErr("create index directory", err)
	}

	db, err := bbolt.Open(idx.path, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return storageErr("open index", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketVectors); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	})
	if err != nil {
		db.Close()
		return storageErr("create buckets", err)
	}

	idx.db = db
	return nil
}

// IsInitialized reports whether the index storage is open.
func (idx *Index) IsInitialized() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.db != nil
}

// Insert appends an item and returns its assigned ID. Items are keyed
// by the bucket sequence number, which doubles as the insertion-order
// tie-breaker for searches.
func (idx *Index) Insert(_ context.Context, item domain.IndexedItem) (string, error) {
	db, err := idx.handle()
	if err != nil {
		return "", err
	}

	id := item.ID
	if id == "" {
		id = uuid.New().String()
	}

	meta := itemMeta{
		ID:           id,
		DocumentID:   item.Metadata.DocumentID,
		DocumentName: item.Metadata.DocumentName,
		Content:      item.Metadata.Content,
		ChunkIndex:   item.Metadata.ChunkIndex,
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal item metadata: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		vectors := tx.Bucket(bucketVectors)
		seq, err := vectors.NextSequence()
		if err != nil {
			return err
		}

		key := seqKey(seq)
		if err := vectors.Put(key, vectorToBytes(item.Vector)); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(key, metaJSON)
	})
	if err != nil {
		return "", storageErr("insert item", err)
	}

	return id, nil
}

// scored pairs an item key with its similarity for ranking.
type scored struct {
	seq   uint64
	score float64
}

// Search scores the query against every stored vector and returns the
// top k hits, descending by cosine similarity. Equal scores order by
// insertion sequence, earlier first. The whole query runs inside one
// read transaction, so concurrent inserts are either fully visible or
// not at all.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	db, err := idx.handle()
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.SearchHit{}, nil
	}

	var hits []domain.SearchHit

	err = db.View(func(tx *bbolt.Tx) error {
		vectors := tx.Bucket(bucketVectors)
		meta := tx.Bucket(bucketMeta)

		var all []scored
		cur := vectors.Cursor()
		for key, val := cur.First(); key != nil; key, val = cur.Next() {
			all = append(all, scored{
				seq:   binary.BigEndian.Uint64(key),
				score: dotBytes(query, val),
			})
		}

		sort.Slice(all, func(i, j int) bool {
			if all[i].score != all[j].score {
				return all[i].score > all[j].score
			}
			return all[i].seq < all[j].seq
		})

		if len(all) > k {
			all = all[:k]
		}

		hits = make([]domain.SearchHit, 0, len(all))
		for _, s := range all {
			raw := meta.Get(seqKey(s.seq))
			if raw == nil {
				continue
			}
			var m itemMeta
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("unmarshal item metadata: %w", err)
			}
			hits = append(hits, domain.SearchHit{
				DocumentID:   m.DocumentID,
				DocumentName: m.DocumentName,
				Content:      m.Content,
				ChunkIndex:   m.ChunkIndex,
				Score:        s.score,
			})
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("search", err)
	}

	return hits, nil
}

// DeleteByDocument removes every item belonging to the document.
// Unknown documents are a no-op, not an error.
func (idx *Index) DeleteByDocument(_ context.Context, documentID string) error {
	db, err := idx.handle()
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		vectors := tx.Bucket(bucketVectors)
		meta := tx.Bucket(bucketMeta)

		var doomed [][]byte
		cur := meta.Cursor()
		for key, val := cur.First(); key != nil; key, val = cur.Next() {
			var m itemMeta
			if err := json.Unmarshal(val, &m); err != nil {
				return fmt.Errorf("unmarshal item metadata: %w", err)
			}
			if m.DocumentID == documentID {
				doomed = append(doomed, append([]byte(nil), key...))
			}
		}

		for _, key := range doomed {
			if err := meta.Delete(key); err != nil {
				return err
			}
			if err := vectors.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("delete by document", err)
	}

	return nil
}

// Count returns the number of stored items.
func (idx *Index) Count(_ context.Context) (int, error) {
	db, err := idx.handle()
	if err != nil {
		return 0, err
	}

	var n int
	err = db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketVectors).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, storageErr("count", err)
	}

	return n, nil
}

// Close closes the underlying database. The index can be reopened with
// EnsureInitialized.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	if err != nil {
		return storageErr("close index", err)
	}
	return nil
}

// Path returns the index file path.
func (idx *Index) Path() string {
	return idx.path
}

// handle returns the open database or ErrIndexUninitialized.
func (idx *Index) handle() (*bbolt.DB, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.db == nil {
		return nil, domain.ErrIndexUninitialized
	}
	return idx.db, nil
}

// storageErr tags an infrastructure failure with domain.ErrStorageIO
// while keeping the underlying message.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w (%v)", op, domain.ErrStorageIO, err)
}

// seqKey encodes a sequence number as a big-endian key so bbolt's
// lexicographic cursor order equals insertion order.
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// vectorToBytes converts a []float32 to little-endian bytes for storage.
func vectorToBytes(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// dotBytes computes the dot product between a query vector and a
// stored little-endian vector without allocating a []float32.
// Mismatched lengths score over the common prefix.
func dotBytes(query []float32, stored []byte) float64 {
	n := len(stored) / 4
	if len(query) < n {
		n = len(query)
	}
	var sum float64
	for i := 0; i < n; i++ {
		f := math.Float32frombits(binary.LittleEndian.Uint32(stored[i*4:]))
		sum += float64(query[i]) * float64(f)
	}
	return sum
}
