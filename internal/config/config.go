package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "TVSIGNAL_CONFIG"
	feedURLEnv      = "TVSIGNAL_FEED_URL"
	dataDirEnv      = "TVSIGNAL_DATA_DIR"
	logLevelEnv     = "TVSIGNAL_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Client    ClientConfig    `yaml:"client"`
	Feed      FeedConfig      `yaml:"feed"`
	Reddit    RedditConfig    `yaml:"reddit"`
	Filter    FilterConfig    `yaml:"filter"`
	Comments  CommentsConfig  `yaml:"comments"`
	Memory    MemoryConfig    `yaml:"memory"`
	Paths     PathsConfig     `yaml:"paths"`
	History   HistoryConfig   `yaml:"history"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ClientConfig describes outbound HTTP behavior shared by the fetcher,
// enrichment client, and comment extractor.
type ClientConfig struct {
	UserAgent       string `yaml:"userAgent"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	RateLimitMillis int    `yaml:"rateLimitMillis"`
}

// Timeout resolves the per-request timeout.
func (c ClientConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RateLimit resolves the fixed minimum interval between successive API calls.
func (c ClientConfig) RateLimit() time.Duration {
	if c.RateLimitMillis < 0 {
		return 0
	}
	return time.Duration(c.RateLimitMillis) * time.Millisecond
}

// FeedConfig describes the upstream feed document.
type FeedConfig struct {
	URL          string `yaml:"url"`
	SnippetLimit int    `yaml:"snippetLimit"`
}

// RedditConfig wires the secondary JSON API used for enrichment.
type RedditConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	Subreddit string `yaml:"subreddit"`
}

// FilterConfig carries every threshold and keyword list the filter engine
// applies. Passed by value at construction time; no process-wide state.
type FilterConfig struct {
	ExcludedKeywords     []string `yaml:"excludedKeywords"`
	AllowedFlairs        []string `yaml:"allowedFlairs"`
	BlockedFlairs        []string `yaml:"blockedFlairs"`
	MinComments          int      `yaml:"minComments"`
	EpisodeMinComments   int      `yaml:"episodeMinComments"`
	MinCommentScoreRatio float64  `yaml:"minCommentScoreRatio"`
}

// CommentsConfig bounds the per-post comment extraction.
type CommentsConfig struct {
	MaxPerPost int `yaml:"maxPerPost"`
	Oversample int `yaml:"oversample"`
	BodyLimit  int `yaml:"bodyLimit"`
}

// MemoryConfig locates the rolling seen-id store.
type MemoryConfig struct {
	Path       string `yaml:"path"`
	MaxSeenIDs int    `yaml:"maxSeenIds"`
}

// PathsConfig groups filesystem locations for run outputs.
type PathsConfig struct {
	ArtifactDir string `yaml:"artifactDir"`
	DigestDir   string `yaml:"digestDir"`
	LockFile    string `yaml:"lockFile"`
}

// HistoryConfig locates the sqlite run-history database.
type HistoryConfig struct {
	DBPath string `yaml:"dbPath"`
}

// SchedulerConfig defines when the daily pipeline run fires.
type SchedulerConfig struct {
	Hour     int            `yaml:"hour"`
	Minute   int            `yaml:"minute"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}

	if v := os.Getenv(dataDirEnv); v != "" {
		c.rebase(v)
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// rebase points every file location at the given data directory.
func (c *Config) rebase(dir string) {
	c.Memory.Path = dir + "/seen_ids.json"
	c.Paths.ArtifactDir = dir + "/artifacts"
	c.Paths.DigestDir = dir + "/digests"
	c.Paths.LockFile = dir + "/tvsignal.lock"
	c.History.DBPath = dir + "/history.db"
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Client.UserAgent != "" {
		base.Client.UserAgent = override.Client.UserAgent
	}
	if override.Client.TimeoutSeconds > 0 {
		base.Client.TimeoutSeconds = override.Client.TimeoutSeconds
	}
	if override.Client.RateLimitMillis > 0 {
		base.Client.RateLimitMillis = override.Client.RateLimitMillis
	}

	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Feed.SnippetLimit > 0 {
		base.Feed.SnippetLimit = override.Feed.SnippetLimit
	}

	if override.Reddit.BaseURL != "" {
		base.Reddit.BaseURL = override.Reddit.BaseURL
	}
	if override.Reddit.Subreddit != "" {
		base.Reddit.Subreddit = override.Reddit.Subreddit
	}

	if len(override.Filter.ExcludedKeywords) > 0 {
		base.Filter.ExcludedKeywords = override.Filter.ExcludedKeywords
	}
	if len(override.Filter.AllowedFlairs) > 0 {
		base.Filter.AllowedFlairs = override.Filter.AllowedFlairs
	}
	if len(override.Filter.BlockedFlairs) > 0 {
		base.Filter.BlockedFlairs = override.Filter.BlockedFlairs
	}
	if override.Filter.MinComments > 0 {
		base.Filter.MinComments = override.Filter.MinComments
	}
	if override.Filter.EpisodeMinComments > 0 {
		base.Filter.EpisodeMinComments = override.Filter.EpisodeMinComments
	}
	if override.Filter.MinCommentScoreRatio > 0 {
		base.Filter.MinCommentScoreRatio = override.Filter.MinCommentScoreRatio
	}

	if override.Comments.MaxPerPost > 0 {
		base.Comments.MaxPerPost = override.Comments.MaxPerPost
	}
	if override.Comments.Oversample > 0 {
		base.Comments.Oversample = override.Comments.Oversample
	}
	if override.Comments.BodyLimit > 0 {
		base.Comments.BodyLimit = override.Comments.BodyLimit
	}

	if override.Memory.Path != "" {
		base.Memory.Path = override.Memory.Path
	}
	if override.Memory.MaxSeenIDs > 0 {
		base.Memory.MaxSeenIDs = override.Memory.MaxSeenIDs
	}

	if override.Paths.ArtifactDir != "" {
		base.Paths.ArtifactDir = override.Paths.ArtifactDir
	}
	if override.Paths.DigestDir != "" {
		base.Paths.DigestDir = override.Paths.DigestDir
	}
	if override.Paths.LockFile != "" {
		base.Paths.LockFile = override.Paths.LockFile
	}

	if override.History.DBPath != "" {
		base.History.DBPath = override.History.DBPath
	}

	if override.Scheduler.Hour > 0 || override.Scheduler.Minute > 0 {
		base.Scheduler.Hour = override.Scheduler.Hour
		base.Scheduler.Minute = override.Scheduler.Minute
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Client: ClientConfig{
			UserAgent:       "tvsignal/1.0 (RSS digest bot)",
			TimeoutSeconds:  30,
			RateLimitMillis: 1000,
		},
		Feed: FeedConfig{
			URL:          "https://www.reddit.com/r/television/.rss?limit=100",
			SnippetLimit: 280,
		},
		Reddit: RedditConfig{
			BaseURL:   "https://www.reddit.com",
			Subreddit: "television",
		},
		Filter: FilterConfig{
			ExcludedKeywords: []string{
				"trailer", "teaser", "first look", "cast", "casting",
				"renewed", "cancelled", "canceled", "streaming on",
				"coming to", "moves to", "premiere date", "release date",
			},
			AllowedFlairs: []string{
				"discussion", "review", "episode discussion",
				"weekly rec thread", "official",
			},
			BlockedFlairs:        []string{"trailer", "casting", "news", "premiere date"},
			MinComments:          50,
			EpisodeMinComments:   20,
			MinCommentScoreRatio: 0.1,
		},
		Comments: CommentsConfig{
			MaxPerPost: 3,
			Oversample: 10,
			BodyLimit:  500,
		},
		Memory: MemoryConfig{Path: "data/seen_ids.json", MaxSeenIDs: 200},
		Paths: PathsConfig{
			ArtifactDir: "data/artifacts",
			DigestDir:   "data/digests",
			LockFile:    "data/tvsignal.lock",
		},
		History:   HistoryConfig{DBPath: "data/history.db"},
		Scheduler: SchedulerConfig{Hour: 23, Minute: 0, Timezone: defaultTimezone, location: tz},
	}
}
