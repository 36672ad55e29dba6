package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 报表服务的全部配置，启动时构建一次，显式传给各组件
type Config struct {
	Env      string `yaml:"env"`
	HTTPAddr string `yaml:"http_addr"`

	// 上游数据源
	ChainID      string        `yaml:"chain_id"`
	APIBase      string        `yaml:"api_base"`
	APIKey       string        `yaml:"api_key"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	MaxPages     int           `yaml:"max_pages"`
	RefreshEvery time.Duration `yaml:"refresh_interval"`
	// 只看某个社区 / 集合组
	Community       string `yaml:"community"`
	CollectionSetID string `yaml:"collection_set_id"`

	// 页面
	Page PageConfig `yaml:"page"`

	LeaderboardSize int `yaml:"leaderboard_size"`

	// Redis 页面缓存，地址为空则不启用
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	// MySQL 每日快照，DSN 为空则不启用
	MySQLDSN string `yaml:"mysql_dsn"`
}

type PageConfig struct {
	MetaTitle        string `yaml:"meta_title"`
	MetaDescription  string `yaml:"meta_description"`
	MetaImage        string `yaml:"meta_image"`
	Tagline          string `yaml:"tagline"`
	Footer           string `yaml:"footer"`
	RedirectHomepage bool   `yaml:"redirect_homepage"`
	Collection       string `yaml:"collection"`
}

var ErrMissingAPIBase = errors.New("missing API base url (LIST_DATA_BASE or DATA_BASE)")

func Default() *Config {
	return &Config{
		Env:             "local",
		HTTPAddr:        ":8080",
		HTTPTimeout:     15 * time.Second,
		MaxPages:        0,
		LeaderboardSize: 10,
		CacheTTL:        5 * time.Minute,
		Page: PageConfig{
			Footer: "explorer.scamsniffer.io",
		},
	}
}

// Load 依次应用：默认值 -> yaml 文件（可选）-> .env（可选）-> 环境变量
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("ENV", c.Env)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)

	c.ChainID = getEnv("CHAIN_ID", c.ChainID)
	// LIST_DATA_BASE 优先于 DATA_BASE
	c.APIBase = firstNonEmpty(os.Getenv("LIST_DATA_BASE"), os.Getenv("DATA_BASE"), c.APIBase)
	c.APIBase = strings.TrimRight(c.APIBase, "/")
	c.APIKey = getEnv("RESERVOIR_API_KEY", c.APIKey)
	c.HTTPTimeout = getEnvAsDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.MaxPages = getEnvAsInt("MAX_PAGES", c.MaxPages)
	c.RefreshEvery = getEnvAsDuration("REFRESH_INTERVAL", c.RefreshEvery)
	c.Community = getEnv("COMMUNITY", c.Community)
	c.CollectionSetID = getEnv("COLLECTION_SET_ID", c.CollectionSetID)

	c.Page.MetaTitle = getEnv("META_TITLE", c.Page.MetaTitle)
	c.Page.MetaDescription = getEnv("META_DESCRIPTION", c.Page.MetaDescription)
	c.Page.MetaImage = getEnv("META_OG_IMAGE", c.Page.MetaImage)
	c.Page.Tagline = getEnv("TAGLINE", c.Page.Tagline)
	c.Page.Footer = getEnv("FOOTER_TEXT", c.Page.Footer)
	c.Page.RedirectHomepage = getEnvAsBool("REDIRECT_HOMEPAGE", c.Page.RedirectHomepage)
	c.Page.Collection = getEnv("COLLECTION", c.Page.Collection)

	c.LeaderboardSize = getEnvAsInt("LEADERBOARD_SIZE", c.LeaderboardSize)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvAsInt("REDIS_DB", c.RedisDB)
	c.CacheTTL = getEnvAsDuration("CACHE_TTL", c.CacheTTL)

	c.MySQLDSN = getEnv("MYSQL_DSN", c.MySQLDSN)
}

// Validate 只检查抓取数据必需的项；CHAIN_ID 缺失由页面层展示错误页
func (c *Config) Validate() error {
	if c.APIBase == "" {
		return ErrMissingAPIBase
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("leaderboard size must be positive, got %d", c.LeaderboardSize)
	}
	return nil
}

// SummaryURL 首屏数据地址
func (c *Config) SummaryURL() string {
	return c.APIBase + "/v1/summary.json"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
