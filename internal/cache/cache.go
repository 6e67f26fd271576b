// Package cache stores solved problems in BadgerDB so repeated requests for
// the same pool and target skip the search.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/gitrdm/countdown/pkg/countdown"
)

// Mode names used in cache keys.
const (
	ModeStandard  = "standard"
	ModeResilient = "resilient"
)

// Options configures a Cache.
type Options struct {
	// Dir is the database directory. Empty opens an in-memory database.
	Dir string
	// TTL expires entries after the given duration. Zero keeps them forever.
	TTL time.Duration
	// Logger receives BadgerDB warnings and errors. Nil disables them.
	Logger *zap.Logger
}

// Cache is a solution store keyed by mode, pool and target.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// zapLogger adapts zap to BadgerDB's Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Errorf(format string, args ...interface{})   { l.s.Errorf(format, args...) }
func (l zapLogger) Warningf(format string, args ...interface{}) { l.s.Warnf(format, args...) }
func (l zapLogger) Infof(format string, args ...interface{})    { l.s.Debugf(format, args...) }
func (l zapLogger) Debugf(format string, args ...interface{})   { l.s.Debugf(format, args...) }

// Open opens or creates the cache database.
func Open(opts Options) (*Cache, error) {
	var bo badger.Options
	if opts.Dir == "" {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", opts.Dir, err)
		}
		bo = badger.DefaultOptions(opts.Dir)
	}
	if opts.Logger != nil {
		bo = bo.WithLogger(zapLogger{s: opts.Logger.Named("badger").Sugar()})
	} else {
		bo = bo.WithLogger(nil)
	}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	return &Cache{db: db, ttl: opts.TTL}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key builds the cache key for a problem in the given mode.
func Key(mode string, p *countdown.Problem) []byte {
	var b strings.Builder
	b.WriteString("solve/")
	b.WriteString(mode)
	b.WriteByte('/')
	for i, n := range p.Numbers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(p.Target))
	return []byte(b.String())
}

// GetSolution returns the cached standard solution for p, if any.
func (c *Cache) GetSolution(p *countdown.Problem) (*countdown.Solution, bool, error) {
	var sol countdown.Solution
	ok, err := c.get(Key(ModeStandard, p), &sol)
	if !ok || err != nil {
		return nil, false, err
	}
	return &sol, true, nil
}

// PutSolution caches a standard solution.
func (c *Cache) PutSolution(sol *countdown.Solution) error {
	return c.put(Key(ModeStandard, &sol.Problem), sol)
}

// GetResilient returns the cached resilient solution for p, if any.
func (c *Cache) GetResilient(p *countdown.Problem) (*countdown.ResilientSolution, bool, error) {
	var sol countdown.ResilientSolution
	ok, err := c.get(Key(ModeResilient, p), &sol)
	if !ok || err != nil {
		return nil, false, err
	}
	return &sol, true, nil
}

// PutResilient caches a resilient solution.
func (c *Cache) PutResilient(sol *countdown.ResilientSolution) error {
	return c.put(Key(ModeResilient, &sol.Problem), sol)
}

func (c *Cache) get(key []byte, v any) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, data)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}
