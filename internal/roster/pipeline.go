package roster

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Tincho2002/dotacion-assa-2025/internal/memo"
	"go.uber.org/zap"
)

// ErrEmptyDataset marks a worksheet that parsed but held no records. It is a
// warning carried on the Dataset, never a failure.
var ErrEmptyDataset = errors.New("la hoja no contiene registros")

// Dataset is the analysis-ready result of one upload.
type Dataset struct {
	// Key identifies the upload by content: the hex SHA-256 of its bytes.
	Key        string
	Filename   string
	Table      *Table
	Derivation Derivation
	Warning    error
	LoadedAt   time.Time
}

// Empty reports whether the dataset has no records.
func (d *Dataset) Empty() bool {
	return d == nil || d.Table.Empty()
}

// Pipeline runs ingestion, normalization and derivation.
type Pipeline struct {
	SheetName string
	Now       func() time.Time
	Logger    *zap.Logger
}

// Run processes one uploaded document. Only ingestion can fail; the returned
// error is then an *IngestError.
func (p Pipeline) Run(data []byte, filename string) (*Dataset, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	key := ContentKey(data)

	raw, err := ReadSheet(data, filename, p.SheetName)
	if err != nil {
		log.Warn("ingest failed", zap.String("dataset", key), zap.String("file", filename), zap.Error(err))
		return nil, err
	}

	clean := Normalize(raw)
	enriched, derivation := Deriver{Now: p.Now}.Derive(clean)

	ds := &Dataset{
		Key:        key,
		Filename:   filename,
		Table:      enriched,
		Derivation: derivation,
		LoadedAt:   time.Now(),
	}
	if enriched.Empty() {
		ds.Warning = ErrEmptyDataset
	}

	log.Info("roster loaded",
		zap.String("dataset", key),
		zap.String("file", filename),
		zap.Int("rows", enriched.Len()),
		zap.Stringer("tenure", derivation.Tenure),
		zap.Stringer("age", derivation.Age),
		zap.Stringer("period", derivation.Period),
	)
	if derivation.Tenure == StrategyUnavailable || derivation.Age == StrategyUnavailable {
		log.Debug("derivation fell back to sentinel", zap.String("dataset", key))
	}
	return ds, nil
}

// ContentKey is the cache key of an upload.
func ContentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Loader memoizes Pipeline runs by upload content in a bounded cache.
type Loader struct {
	pipeline Pipeline
	cache    *memo.Cache[*Dataset]
}

// NewLoader returns a loader holding at most capacity datasets.
func NewLoader(p Pipeline, capacity int) *Loader {
	return &Loader{pipeline: p, cache: memo.New[*Dataset](capacity)}
}

// Load returns the dataset for data, running the pipeline only on a cache miss.
// Failed ingestion is not cached.
func (l *Loader) Load(data []byte, filename string) (*Dataset, error) {
	ds, _, err := l.cache.Do(ContentKey(data), func() (*Dataset, error) {
		return l.pipeline.Run(data, filename)
	})
	return ds, err
}

// Get returns a previously loaded dataset by key.
func (l *Loader) Get(key string) (*Dataset, bool) {
	return l.cache.Get(key)
}

// Invalidate drops a dataset from the cache.
func (l *Loader) Invalidate(key string) {
	l.cache.Remove(key)
}

// OnEvict registers fn to run when a dataset leaves the cache.
func (l *Loader) OnEvict(fn func(key string)) {
	l.cache.OnEvict(func(key string, _ *Dataset) { fn(key) })
}

// Stats reports cache counters.
func (l *Loader) Stats() memo.Stats {
	return l.cache.Stats()
}
