// Package config loads the settings of the collector jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ewintr.nl/ytharvest/model"
	"ewintr.nl/ytharvest/process"
	"gopkg.in/yaml.v3"
)

const DefaultChannelID = "UCMzR-mdZmIi-ZA7VQdDUyUQ"

type Config struct {
	YoutubeAPIKey   string `yaml:"youtube_api_key"`
	YoutubeEndpoint string `yaml:"youtube_endpoint"`

	Bucket        string `yaml:"bucket"`
	CommentBucket string `yaml:"comment_bucket"`
	Region        string `yaml:"region"`
	S3Endpoint    string `yaml:"s3_endpoint"`

	ChannelIDs []string           `yaml:"channel_ids"`
	StartYear  int                `yaml:"start_year"`
	Timezone   string             `yaml:"timezone"`
	Categories []process.Category `yaml:"categories"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Region:     "ap-northeast-1",
		ChannelIDs: []string{DefaultChannelID},
		StartYear:  2008,
		Timezone:   process.DefaultTimezone,
		Categories: process.DefaultCategories(),
		CacheTTL:   6 * time.Hour,
		LogLevel:   "info",
	}
}

// Load builds the configuration for a job from the defaults, the YAML file
// named by CONFIG_PATH, if any, and the environment, in that order.
func Load(job model.JobName) (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if cfg.CommentBucket == "" {
		cfg.CommentBucket = cfg.Bucket
	}
	if err := cfg.Validate(job); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnv() error {
	c.YoutubeAPIKey = getParam("YOUTUBE_API_KEY", c.YoutubeAPIKey)
	c.YoutubeEndpoint = getParam("YOUTUBE_ENDPOINT", c.YoutubeEndpoint)
	c.Bucket = getParam("S3_BUCKET_NAME", c.Bucket)
	c.CommentBucket = getParam("S3_BUCKET_NAME_GET_COMMENT", c.CommentBucket)
	c.Region = getParam("S3_REGION", c.Region)
	c.S3Endpoint = getParam("S3_ENDPOINT", c.S3Endpoint)
	c.Timezone = getParam("TIMEZONE", c.Timezone)
	c.RedisAddr = getParam("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getParam("REDIS_PASSWORD", c.RedisPassword)
	c.DatabaseURL = getParam("DATABASE_URL", c.DatabaseURL)
	c.LogLevel = getParam("LOG_LEVEL", c.LogLevel)

	if v, ok := os.LookupEnv("CHANNEL_IDS"); ok {
		c.ChannelIDs = splitList(v)
	}
	if v, ok := os.LookupEnv("START_YEAR"); ok {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid START_YEAR %q: %w", v, err)
		}
		c.StartYear = year
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.RedisDB = db
	}
	if v, ok := os.LookupEnv("CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = ttl
	}

	return nil
}

// Validate checks the fields a job cannot run without. The channel list is
// only needed by the video job.
func (c *Config) Validate(job model.JobName) error {
	var errs []error
	if c.YoutubeAPIKey == "" {
		errs = append(errs, errors.New("youtube api key is required"))
	}
	switch job {
	case model.JobVideos:
		if c.Bucket == "" {
			errs = append(errs, errors.New("bucket is required"))
		}
		if len(c.ChannelIDs) == 0 {
			errs = append(errs, errors.New("at least one channel id is required"))
		}
	case model.JobComments:
		if c.CommentBucket == "" {
			errs = append(errs, errors.New("comment bucket is required"))
		}
	}
	if c.StartYear < 2005 {
		errs = append(errs, fmt.Errorf("start year %d is before youtube existed", c.StartYear))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	for _, cat := range c.Categories {
		if cat.Name == "" {
			errs = append(errs, errors.New("category without a name"))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
