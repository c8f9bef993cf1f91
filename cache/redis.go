package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DiversityKey ключ общего слота в Redis
const DiversityKey = "course:domain-diversity"

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Addr адрес в формате "host:port"
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// RedisSlot делит значение между экземплярами сервиса. Ключ истекает
// вместе со значением, поколение живет в отдельном ключе без TTL.
type RedisSlot struct {
	client *redis.Client
	key    string
	genKey string
}

func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client, key: DiversityKey, genKey: DiversityKey + ":generation"}
}

// Пишем значение, только если поколение не сдвинулось
var storeIfScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

func (s *RedisSlot) Load(ctx context.Context) (Entry, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return entry, true, nil
}

func (s *RedisSlot) Generation(ctx context.Context) (uint64, error) {
	gen, err := s.client.Get(ctx, s.genKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (s *RedisSlot) StoreIf(ctx context.Context, gen uint64, entry Entry) (bool, error) {
	ttl := time.Until(entry.ExpiresAt).Milliseconds()
	if ttl <= 0 {
		return false, nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", s.key, err)
	}

	stored, err := storeIfScript.Run(ctx, s.client, []string{s.key, s.genKey},
		strconv.FormatUint(gen, 10), data, ttl).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Invalidate двигает поколение и удаляет значение в одном MULTI
func (s *RedisSlot) Invalidate(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, s.genKey)
		pipe.Del(ctx, s.key)
		return nil
	})
	return err
}
