package config

import (
	domainerr "folio/internal/domain/errors"
	"gopkg.in/yaml.v3"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
	Serve ServeConfig `yaml:"serve"`
	Fetch FetchConfig `yaml:"fetch"`
	Log   LogConfig   `yaml:"log"`
}

type SiteConfig struct {
	// Title 非空时覆盖 homepage.tabTitle
	Title    string `yaml:"title"`
	Language string `yaml:"language"`
	BaseURL  string `yaml:"base_url"`
}

type BuildConfig struct {
	DataFile   string    `yaml:"data_file"`
	ContentDir string    `yaml:"content_dir"`
	PublicDir  string    `yaml:"public_dir"`
	ThemeDir   string    `yaml:"theme_dir"`
	IndexPath  string    `yaml:"index_path"`
	Now        time.Time `yaml:"-"`
}

type ServeConfig struct {
	Addr       string `yaml:"addr"`
	LiveReload bool   `yaml:"live_reload"`
	Metrics    bool   `yaml:"metrics"`
}

// FetchConfig selects where remote content references are read from.
// An empty BaseURL means the local content directory.
type FetchConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

type LogConfig struct {
	Level  string    `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Language: "en",
		},
		Build: BuildConfig{
			DataFile:   "content/data.json",
			ContentDir: "public",
			PublicDir:  "dist",
			ThemeDir:   "",
			IndexPath:  ".folio/manifest.db",
			Now:        time.Now(),
		},
		Serve: ServeConfig{
			Addr:       ":8080",
			LiveReload: true,
			Metrics:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogText,
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Build.DataFile) == "" {
		ve.Add("build.data_file", "must not be empty")
	} else if ext := strings.ToLower(filepath.Ext(c.Build.DataFile)); ext != ".json" && ext != ".yaml" && ext != ".yml" {
		ve.Add("build.data_file", "must be a .json, .yaml or .yml file")
	}
	if strings.TrimSpace(c.Build.ContentDir) == "" {
		ve.Add("build.content_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}

	if bu := strings.TrimSpace(c.Site.BaseURL); bu != "" && !isValidAbsURL(bu) {
		ve.Add("site.base_url", "must be a valid absolute URL")
	}
	if bu := strings.TrimSpace(c.Fetch.BaseURL); bu != "" && !isValidAbsURL(bu) {
		ve.Add("fetch.base_url", "must be a valid absolute URL")
	}
	if c.Fetch.Timeout < 0 {
		ve.Add("fetch.timeout", "must not be negative")
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		ve.Addf("log.level", "unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", LogText, LogJSON:
	default:
		ve.Add("log.format", "must be 'text' or 'json'")
	}

	return ve.Err()
}

// SlogLevel 解析失败时回落到 info，Validate 已经报告过了
func (c LogConfig) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Level)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ApplyEnv 用环境变量覆盖文件里的值（.env 由调用方先加载）
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv("FOLIO_ADDR")); v != "" {
		c.Serve.Addr = v
	}
	if v := strings.TrimSpace(getenv("FOLIO_DATA_FILE")); v != "" {
		c.Build.DataFile = v
	}
	if v := strings.TrimSpace(getenv("FOLIO_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(getenv("FOLIO_FETCH_BASE_URL")); v != "" {
		c.Fetch.BaseURL = v
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 直接 Unmarshal 到 cfg 上：文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	return cfg, nil
}

// LoadOrDefault 文件不存在时用默认配置
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}
