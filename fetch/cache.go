package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ewintr.nl/ytharvest/model"
	"github.com/redis/go-redis/v9"
)

const videoInfoKeyPrefix = "ytharvest:videoinfo:"

type VideoInfoCache interface {
	Get(ctx context.Context, videoID model.YoutubeVideoID) (model.VideoInfo, bool, error)
	Set(ctx context.Context, info model.VideoInfo) error
}

type RedisInfo struct {
	Address  string
	Password string
	DB       int
}

func NewRedisClient(info RedisInfo) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     info.Address,
		Password: info.Password,
		DB:       info.DB,
	})
}

// RedisCache stores VideoInfo as JSON with a TTL, so that the comments of a
// video collected in consecutive runs share a recent snapshot without a new
// lookup every time.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, videoID model.YoutubeVideoID) (model.VideoInfo, bool, error) {
	val, err := c.rdb.Get(ctx, videoInfoKeyPrefix+string(videoID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.VideoInfo{}, false, nil
	}
	if err != nil {
		return model.VideoInfo{}, false, err
	}

	var info model.VideoInfo
	if err := json.Unmarshal(val, &info); err != nil {
		return model.VideoInfo{}, false, err
	}

	return info, true, nil
}

func (c *RedisCache) Set(ctx context.Context, info model.VideoInfo) error {
	val, err := json.Marshal(info)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, videoInfoKeyPrefix+string(info.ID), val, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
