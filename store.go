package openhours

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/hoyle1974/openhours/misc"
	"github.com/hoyle1974/openhours/storage"
	"github.com/hoyle1974/openhours/telemetry"
	"github.com/hoyle1974/openhours/temporal"
)

const dayPrefix = "days/"

var (
	ErrNotFound    = errors.New("day not found")
	ErrInvalidName = errors.New("invalid day name")
	ErrNoRanges    = errors.New("day has no ranges")
)

// Day is a named set of opening ranges that applies to a single day.
// Ranges are kept as their string definitions so they can be shown back
// exactly as they were given.
type Day struct {
	Name     string
	Ranges   []string
	Revision string
	Updated  time.Time
}

// Store keeps Days on a storage system and answers opening hours questions
// about them.
type Store interface {
	Put(ctx context.Context, name string, definitions ...string) (Day, error)
	Get(ctx context.Context, name string) (Day, error)
	Delete(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)

	// Ranges returns the parsed ranges of a day. Each range carries the
	// day's name as its data.
	Ranges(ctx context.Context, name string) ([]temporal.TimeRange, error)

	// IsOpenAt checks moment's clock time against every range of the day,
	// including the after midnight part of ranges that cross midnight.
	IsOpenAt(ctx context.Context, name string, moment time.Time) (bool, error)

	// Bounds is the range from the earliest start to the latest end.
	Bounds(ctx context.Context, name string) (temporal.TimeRange, error)

	NextOpen(ctx context.Context, name string, moment time.Time) (time.Time, error)
	NextClose(ctx context.Context, name string, moment time.Time) (time.Time, error)

	CacheStats() *CacheStats
}

type Option func(*store)

func WithLogger(l telemetry.Logger) Option {
	return func(s *store) { s.log = l }
}

func WithMetrics(m telemetry.Metrics) Option {
	return func(s *store) { s.metrics = m }
}

// WithCacheTTL sets how long parsed days are kept. Writes from other
// processes sharing the storage become visible after at most ttl. A ttl of
// zero or less turns the cache off.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *store) { s.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *store) { s.now = now }
}

type store struct {
	storage storage.System
	cache   *cache.Cache
	stats   CacheStats
	ttl     time.Duration
	log     telemetry.Logger
	metrics telemetry.Metrics
	now     func() time.Time
}

func NewStore(storage storage.System, opts ...Option) Store {
	s := &store{
		storage: storage,
		ttl:     5 * time.Minute,
		log:     telemetry.NOPLogger{},
		metrics: telemetry.NOPMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = cache.New(s.ttl, 2*s.ttl)

	return s
}

func dayKey(name string) string {
	return dayPrefix + name + ".day"
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func parseDefinitions(name string, definitions []string) ([]temporal.TimeRange, error) {
	ranges := make([]temporal.TimeRange, len(definitions))
	for idx, def := range definitions {
		r, err := temporal.ParseTimeRange(def)
		if err != nil {
			return nil, errors.Wrapf(err, "range %d of %s", idx, name)
		}
		ranges[idx] = r.WithData(name)
	}
	return ranges, nil
}

// Put implements Store.
func (s *store) Put(ctx context.Context, name string, definitions ...string) (Day, error) {
	if err := validName(name); err != nil {
		return Day{}, err
	}

	ranges, err := parseDefinitions(name, definitions)
	if err != nil {
		return Day{}, err
	}

	day := Day{
		Name:     name,
		Ranges:   append([]string{}, definitions...),
		Revision: uuid.NewString(),
		Updated:  s.now().UTC(),
	}

	b, err := misc.EncodeToBytes(day)
	if err != nil {
		return Day{}, errors.Wrap(err, "can not encode day")
	}
	if err := s.storage.Write(ctx, dayKey(name), b); err != nil {
		return Day{}, errors.Wrapf(err, "can not save %s", name)
	}

	if s.ttl > 0 {
		s.cache.Set(name, cachedDay{ranges: ranges}, cache.DefaultExpiration)
	}
	s.log.Info("saved day " + name + " revision " + day.Revision)

	return day, nil
}

// Get implements Store.
func (s *store) Get(ctx context.Context, name string) (Day, error) {
	if err := validName(name); err != nil {
		return Day{}, err
	}

	b, err := s.storage.Read(ctx, dayKey(name))
	if errors.Is(err, storage.ErrDoesNotExist) {
		return Day{}, errors.Wrapf(ErrNotFound, "%s", name)
	}
	if err != nil {
		return Day{}, errors.Wrapf(err, "can not load %s", name)
	}

	var day Day
	if err := misc.DecodeFromBytes(b, &day); err != nil {
		s.log.Error("can not decode day "+name, err)
		return Day{}, errors.Wrapf(err, "can not decode %s", name)
	}

	return day, nil
}

// Delete implements Store.
func (s *store) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	s.cache.Delete(name)
	if err := s.storage.Delete(ctx, dayKey(name)); err != nil {
		return errors.Wrapf(err, "can not delete %s", name)
	}
	s.log.Info("deleted day " + name)

	return nil
}

// Names implements Store.
func (s *store) Names(ctx context.Context) ([]string, error) {
	keys, err := s.storage.GetKeysWithPrefix(ctx, dayPrefix)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, ".day") {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(k, dayPrefix), ".day"))
	}

	return names, nil
}

// Ranges implements Store.
func (s *store) Ranges(ctx context.Context, name string) ([]temporal.TimeRange, error) {
	if cached, ok := s.cache.Get(name); ok {
		s.stats.Hit()
		s.metrics.SetCount("openhours.cache.hits", s.stats.Hits.Load())
		return append([]temporal.TimeRange{}, cached.(cachedDay).ranges...), nil
	}
	s.stats.Miss()
	s.metrics.SetCount("openhours.cache.misses", s.stats.Misses.Load())
	s.log.Debug("cache miss for " + name)

	day, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	ranges, err := parseDefinitions(name, day.Ranges)
	if err != nil {
		s.log.Error("stored day "+name+" does not parse", err)
		return nil, err
	}

	// A Put that landed while we were reading keeps its entry.
	if s.ttl > 0 {
		_ = s.cache.Add(name, cachedDay{ranges: ranges}, cache.DefaultExpiration)
	}

	return append([]temporal.TimeRange{}, ranges...), nil
}

// CacheStats implements Store.
func (s *store) CacheStats() *CacheStats {
	return &s.stats
}

// IsOpenAt implements Store.
func (s *store) IsOpenAt(ctx context.Context, name string, moment time.Time) (bool, error) {
	ranges, err := s.Ranges(ctx, name)
	if err != nil {
		return false, err
	}

	clock := temporal.TimeFromDateTime(moment)
	for _, r := range ranges {
		if r.ContainsTime(clock) || r.ContainsNightTime(clock) {
			return true, nil
		}
	}

	return false, nil
}

// Bounds implements Store.
func (s *store) Bounds(ctx context.Context, name string) (temporal.TimeRange, error) {
	ranges, err := s.Ranges(ctx, name)
	if err != nil {
		return temporal.TimeRange{}, err
	}

	bounds, err := temporal.FromList(ranges...)
	if err != nil {
		return temporal.TimeRange{}, errors.Wrapf(err, "bounds of %s", name)
	}

	return bounds.WithData(name), nil
}

// NextOpen implements Store.
func (s *store) NextOpen(ctx context.Context, name string, moment time.Time) (time.Time, error) {
	return s.earliest(ctx, name, func(r temporal.TimeRange) time.Time {
		return r.StartAfter(moment)
	})
}

// NextClose implements Store.
func (s *store) NextClose(ctx context.Context, name string, moment time.Time) (time.Time, error) {
	return s.earliest(ctx, name, func(r temporal.TimeRange) time.Time {
		return r.EndAfter(moment)
	})
}

func (s *store) earliest(ctx context.Context, name string, at func(temporal.TimeRange) time.Time) (time.Time, error) {
	ranges, err := s.Ranges(ctx, name)
	if err != nil {
		return time.Time{}, err
	}
	if len(ranges) == 0 {
		return time.Time{}, errors.Wrapf(ErrNoRanges, "%s", name)
	}

	next := at(ranges[0])
	for _, r := range ranges[1:] {
		if t := at(r); t.Before(next) {
			next = t
		}
	}

	return next, nil
}
