package store

import (
    "context"
    "fmt"
    "strconv"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// Record is a stored calculation.
type Record struct {
    ID        string    `json:"id"`
    Pages     int       `json:"pages"`
    Sheets    int       `json:"sheets"`
    Blanks    int       `json:"blanks"`
    Front     string    `json:"front"`
    Back      string    `json:"back"`
    Source    string    `json:"source"`
    Lang      string    `json:"lang"`
    CreatedAt time.Time `json:"created_at"`
}

// RedisHistory keeps recent calculations as Redis hashes plus an ID list.
type RedisHistory struct {
    client *redis.Client
    keyNS  string
    ttl    time.Duration
    size   int
}

func NewRedisHistory(redisURL string, ttl time.Duration, size int) (*RedisHistory, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil { return nil, fmt.Errorf("parse redis url: %w", err) }
    c := redis.NewClient(opt)
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := c.Ping(ctx).Err(); err != nil {
        _ = c.Close()
        return nil, fmt.Errorf("redis ping: %w", err)
    }
    return newRedisHistory(c, ttl, size), nil
}

func newRedisHistory(c *redis.Client, ttl time.Duration, size int) *RedisHistory {
    if size <= 0 { size = 100 }
    return &RedisHistory{client: c, keyNS: "booklet", ttl: ttl, size: size}
}

func (s *RedisHistory) key(id string) string { return fmt.Sprintf("%s:%s", s.keyNS, id) }
func (s *RedisHistory) recentKey() string    { return s.keyNS + ":recent" }

// Save stores rec and pushes its ID onto the recent list.
func (s *RedisHistory) Save(ctx context.Context, rec Record) error {
    pipe := s.client.TxPipeline()
    pipe.HSet(ctx, s.key(rec.ID), recordFields(rec))
    if s.ttl > 0 { pipe.Expire(ctx, s.key(rec.ID), s.ttl) }
    pipe.LPush(ctx, s.recentKey(), rec.ID)
    pipe.LTrim(ctx, s.recentKey(), 0, int64(s.size-1))
    _, err := pipe.Exec(ctx)
    return err
}

// Get returns the record with id; ok is false when it does not exist.
func (s *RedisHistory) Get(ctx context.Context, id string) (Record, bool, error) {
    res, err := s.client.HGetAll(ctx, s.key(id)).Result()
    if err != nil { return Record{}, false, err }
    if len(res) == 0 { return Record{}, false, nil }
    return parseRecord(id, res), true, nil
}

// Recent returns up to n records, newest first. Expired entries are skipped.
func (s *RedisHistory) Recent(ctx context.Context, n int) ([]Record, error) {
    if n <= 0 || n > s.size { n = s.size }
    ids, err := s.client.LRange(ctx, s.recentKey(), 0, int64(n-1)).Result()
    if err != nil { return nil, err }
    out := make([]Record, 0, len(ids))
    for _, id := range ids {
        rec, ok, err := s.Get(ctx, id)
        if err != nil { return out, err }
        if ok { out = append(out, rec) }
    }
    return out, nil
}

// Ping reports whether Redis is reachable.
func (s *RedisHistory) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *RedisHistory) Close() error { return s.client.Close() }

func recordFields(rec Record) map[string]interface{} {
    return map[string]interface{}{
        "pages":   rec.Pages,
        "sheets":  rec.Sheets,
        "blanks":  rec.Blanks,
        "front":   rec.Front,
        "back":    rec.Back,
        "source":  rec.Source,
        "lang":    rec.Lang,
        "created": rec.CreatedAt.UTC().Format(time.RFC3339Nano),
    }
}

func parseRecord(id string, res map[string]string) Record {
    rec := Record{ID: id, Front: res["front"], Back: res["back"], Source: res["source"], Lang: res["lang"]}
    // ignore parse errors; default 0
    rec.Pages, _ = strconv.Atoi(res["pages"])
    rec.Sheets, _ = strconv.Atoi(res["sheets"])
    rec.Blanks, _ = strconv.Atoi(res["blanks"])
    if v := res["created"]; v != "" {
        if t, err := time.Parse(time.RFC3339Nano, v); err == nil { rec.CreatedAt = t }
    }
    return rec
}
