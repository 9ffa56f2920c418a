// Package cache stores pruning results on disk, keyed by a digest of the
// options, the externs and the source, so unchanged inputs skip the pass.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/HugoDaniel/jsprune/internal/optimizer"
)

const bucketResults = "results"

// ErrCorrupt is returned by Open when the file is not a cache database.
var ErrCorrupt = errors.New("cache: invalid database file")

// Cache is a persistent map from input digests to pruned code. It is safe
// for concurrent use.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path. It waits at most one
// second for another process holding the file lock.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrInvalid) {
			return nil, fmt.Errorf("%s: %w", path, ErrCorrupt)
		}
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketResults))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the database file.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached code for key.
func (c *Cache) Get(key string) (code string, ok bool, err error) {
	err = c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketResults)).Get([]byte(key)); v != nil {
			code, ok = string(v), true
		}
		return nil
	})
	return code, ok, err
}

// Put stores code under key.
func (c *Cache) Put(key, code string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketResults)).Put([]byte(key), []byte(code))
	})
}

// Len returns the number of cached results.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketResults)).Stats().KeyN
		return nil
	})
	return n, err
}

// Key digests everything that determines the output of a run. Sources
// are hashed in order; extern order does not matter.
func Key(opts optimizer.Options, externs, sources []optimizer.Source) string {
	h := sha256.New()
	field := func(s string) {
		io.WriteString(h, strconv.Itoa(len(s)))
		io.WriteString(h, ":")
		io.WriteString(h, s)
	}

	field(strconv.FormatBool(opts.MinifyWhitespace))
	field(strconv.FormatBool(opts.RemoveGlobal))
	field(strconv.FormatBool(opts.PreserveFunctionExpressionNames))
	field(strconv.FormatBool(opts.TrimCallSites))
	field(strconv.Itoa(opts.MaxIterations))
	field(opts.ExportPrefix)
	field(strings.Join(opts.LinkFunctions, ","))
	field(strings.Join(opts.PreservedCalls, ","))
	field(strings.Join(opts.PureCalls, ","))

	ext := make([]string, len(externs))
	for i, e := range externs {
		ext[i] = e.Code
	}
	sort.Strings(ext)
	for _, code := range ext {
		field(code)
	}
	field("--")
	for _, src := range sources {
		field(src.Path)
		field(src.Code)
	}
	return hex.EncodeToString(h.Sum(nil))
}
