package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed statements keyed by (mode:source_hash^opts_hash).
// Cached trees are never mutated, so they are shared by every program and
// session that parses the same source with the same options.
var globalCache sync.Map

// cacheLen counts the keys stored in globalCache.
var cacheLen atomic.Int64

// MaxCacheEntries bounds the number of cached parse results. Once reached,
// the cache is emptied before the next result is stored, so a long-lived
// session typing distinct lines cannot grow it without limit.
var MaxCacheEntries = 4096

// state tracks the parse result of one cache key.
type state struct {
	once  sync.Once
	stmts []*Stmt
	err   error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader reads a whole script from r and parses it with [ParseAll].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Script, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseAll(ctx, string(data), opts...)
}

// parseCached parses source in the given mode, reusing an earlier result for
// the same source, mode and options.
func parseCached(
	ctx context.Context,
	mode parseMode,
	source string,
	cfg config,
) ([]*Stmt, error) {
	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(cfg.opts)
	key := strconv.Itoa(int(mode)) + ":" +
		strconv.FormatUint(sourceHash^optsHash, 36)

	if int(cacheLen.Load()) >= MaxCacheEntries {
		ClearCache()
	}

	value, cacheHit := globalCache.LoadOrStore(key, new(state))
	if !cacheHit {
		cacheLen.Add(1)
	}

	entry, ok := value.(*state)
	if !ok {
		return parse(ctx, mode, source, cfg)
	}

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.stmts, entry.err = parse(ctx, mode, source, cfg)
	})

	// A canceled parse says nothing about the source.
	if errors.Is(entry.err, ErrCanceled) && globalCache.CompareAndDelete(key, entry) {
		cacheLen.Add(-1)
	}

	return entry.stmts, entry.err
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
	cacheLen.Store(0)
}
