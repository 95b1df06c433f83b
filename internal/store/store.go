// Package store keeps count samples in Redis and loads them back as chart
// series.
//
// Each series is a sorted set scored by epoch milliseconds whose members
// read "<ms>:<seq>:<count>" or "<ms>:<seq>:<count>:flag". The zero-padded
// seq comes from a per-series counter, so members sharing a timestamp sort
// in append order and the last appended one wins. Series metadata (capacity,
// display time zone and the counter) lives in a hash next to it.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/logging"

	"github.com/kpumuk/lazycharts/internal/chart/scale"
	"github.com/kpumuk/lazycharts/internal/chart/series"
)

func init() {
	redis.SetLogger(&logging.VoidLogger{})
}

const (
	keyPrefix    = "lazycharts:"
	samplesKey   = keyPrefix + "samples:"
	metaKey      = keyPrefix + "series:"
	seriesSetKey = keyPrefix + "series"

	fieldCapacity = "capacity"
	fieldTimeZone = "timezone"
	fieldSeq      = "seq"

	seqWidth = 12

	flagSuffix = "flag"
)

// ErrNoSeries is returned when a series name is empty.
var ErrNoSeries = errors.New("series name is required")

// Client reads and writes sample series.
type Client struct {
	redis           *redis.Client
	displayRedisURL string
}

// NewClient creates a client configured from a Redis URL.
func NewClient(redisURL string) (*Client, error) {
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	// Fail fast: the UI polls and would rather show an error than hang.
	opts.MaxRetries = -1
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.PoolSize = 1

	return &Client{
		redis:           redis.NewClient(opts),
		displayRedisURL: sanitizeRedisURL(redisURL),
	}, nil
}

// DisplayRedisURL returns the Redis URL with any password removed.
func (c *Client) DisplayRedisURL() string {
	return c.displayRedisURL
}

func sanitizeRedisURL(redisURL string) string {
	if redisURL == "" {
		return ""
	}
	parsed, err := url.Parse(redisURL)
	if err != nil {
		return redisURL
	}
	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = nil
		} else {
			parsed.User = url.User(username)
		}
	}
	return parsed.String()
}

// AddHook instruments every command the client sends.
func (c *Client) AddHook(h redis.Hook) {
	c.redis.AddHook(h)
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.redis.Close()
}

// Snapshot is everything needed to chart one window of a series.
type Snapshot struct {
	Samples      []series.Sample
	InitialCount float64
	Capacity     *float64
	TimeZone     string
}

// Load fetches the samples in [start, end] along with the count carried
// into the window and the series metadata. A zero start or end leaves that
// side unbounded.
func (c *Client) Load(ctx context.Context, name string, start, end time.Time) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Samples, err = c.Samples(ctx, name, start, end); err != nil {
		return snap, err
	}
	if !start.IsZero() {
		if snap.InitialCount, err = c.InitialCount(ctx, name, start); err != nil {
			return snap, err
		}
	}
	if snap.Capacity, err = c.Capacity(ctx, name); err != nil {
		return snap, err
	}
	if snap.TimeZone, err = c.TimeZone(ctx, name); err != nil {
		return snap, err
	}
	return snap, nil
}

// Samples returns the samples of a series with timestamps in [start, end],
// oldest first and in append order within a timestamp. Malformed members
// are skipped.
func (c *Client) Samples(ctx context.Context, name string, start, end time.Time) ([]series.Sample, error) {
	if name == "" {
		return nil, ErrNoSeries
	}
	members, err := c.redis.ZRangeByScore(ctx, samplesKey+name, &redis.ZRangeBy{
		Min: scoreBound(start, "-inf"),
		Max: scoreBound(end, "+inf"),
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("fetch samples: %w", err)
	}

	samples := make([]series.Sample, 0, len(members))
	for _, m := range members {
		if s, ok := parseMember(m); ok {
			samples = append(samples, s)
		}
	}
	series.Sort(samples)
	return samples, nil
}

// InitialCount returns the count of the last sample strictly before before,
// or 0 when there is none. Of samples sharing that timestamp the last
// appended one counts.
func (c *Client) InitialCount(ctx context.Context, name string, before time.Time) (float64, error) {
	if name == "" {
		return 0, ErrNoSeries
	}
	members, err := c.redis.ZRevRangeByScore(ctx, samplesKey+name, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "(" + formatScore(before),
		Count: 1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("fetch initial count: %w", err)
	}
	for _, m := range members {
		if s, ok := parseMember(m); ok {
			return s.Count, nil
		}
	}
	return 0, nil
}

// Capacity returns the configured capacity of a series, or nil.
func (c *Client) Capacity(ctx context.Context, name string) (*float64, error) {
	if name == "" {
		return nil, ErrNoSeries
	}
	raw, err := c.redis.HGet(ctx, metaKey+name, fieldCapacity).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch capacity: %w", err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil, nil
	}
	return &v, nil
}

// TimeZone returns the display time zone of a series, or "".
func (c *Client) TimeZone(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrNoSeries
	}
	tz, err := c.redis.HGet(ctx, metaKey+name, fieldTimeZone).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch time zone: %w", err)
	}
	return tz, nil
}

// Append records a sample and registers the series.
func (c *Client) Append(ctx context.Context, name string, s series.Sample) error {
	if name == "" {
		return ErrNoSeries
	}
	seq, err := c.redis.HIncrBy(ctx, metaKey+name, fieldSeq, 1).Result()
	if err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	_, err = c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, samplesKey+name, redis.Z{
			Score:  scale.Millis(s.Timestamp),
			Member: formatMember(s, seq),
		})
		pipe.SAdd(ctx, seriesSetKey, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	return nil
}

// SetCapacity stores the capacity of a series. A non-positive capacity
// clears it.
func (c *Client) SetCapacity(ctx context.Context, name string, capacity float64) error {
	if name == "" {
		return ErrNoSeries
	}
	var err error
	if capacity <= 0 {
		err = c.redis.HDel(ctx, metaKey+name, fieldCapacity).Err()
	} else {
		err = c.redis.HSet(ctx, metaKey+name, fieldCapacity, strconv.FormatFloat(capacity, 'f', -1, 64)).Err()
	}
	if err != nil {
		return fmt.Errorf("set capacity: %w", err)
	}
	return c.register(ctx, name)
}

// SetTimeZone stores the display time zone of a series. An empty zone
// clears it.
func (c *Client) SetTimeZone(ctx context.Context, name, zone string) error {
	if name == "" {
		return ErrNoSeries
	}
	var err error
	if zone == "" {
		err = c.redis.HDel(ctx, metaKey+name, fieldTimeZone).Err()
	} else {
		err = c.redis.HSet(ctx, metaKey+name, fieldTimeZone, zone).Err()
	}
	if err != nil {
		return fmt.Errorf("set time zone: %w", err)
	}
	return c.register(ctx, name)
}

// Trim removes samples older than before and returns how many were removed.
func (c *Client) Trim(ctx context.Context, name string, before time.Time) (int64, error) {
	if name == "" {
		return 0, ErrNoSeries
	}
	n, err := c.redis.ZRemRangeByScore(ctx, samplesKey+name, "-inf", "("+formatScore(before)).Result()
	if err != nil {
		return 0, fmt.Errorf("trim samples: %w", err)
	}
	return n, nil
}

// Series lists the known series names in alphabetical order.
func (c *Client) Series(ctx context.Context) ([]string, error) {
	names, err := c.redis.SMembers(ctx, seriesSetKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list series: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

func (c *Client) register(ctx context.Context, name string) error {
	if err := c.redis.SAdd(ctx, seriesSetKey, name).Err(); err != nil {
		return fmt.Errorf("register series: %w", err)
	}
	return nil
}

func scoreBound(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return formatScore(t)
}

func formatScore(t time.Time) string {
	return strconv.FormatFloat(scale.Millis(t), 'f', -1, 64)
}

func formatMember(s series.Sample, seq int64) string {
	member := fmt.Sprintf("%s:%0*d:%s", formatScore(s.Timestamp), seqWidth, seq, strconv.FormatFloat(s.Count, 'f', -1, 64))
	if s.Flag {
		member += ":" + flagSuffix
	}
	return member
}

func parseMember(member string) (series.Sample, bool) {
	parts := strings.Split(member, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return series.Sample{}, false
	}
	ms, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return series.Sample{}, false
	}
	if len(parts[1]) != seqWidth {
		return series.Sample{}, false
	}
	if _, err := strconv.ParseUint(parts[1], 10, 64); err != nil {
		return series.Sample{}, false
	}
	count, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return series.Sample{}, false
	}
	s := series.Sample{Timestamp: scale.FromMillis(ms), Count: count}
	if len(parts) == 4 {
		if parts[3] != flagSuffix {
			return series.Sample{}, false
		}
		s.Flag = true
	}
	return s, true
}
