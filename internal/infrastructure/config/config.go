package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、.env文件、环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Import   ImportConfig   `mapstructure:"import"`
	MQ       MQConfig       `mapstructure:"mq"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | postgres | sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	SSLMode         string        `mapstructure:"sslmode"` // 仅postgres
	Path            string        `mapstructure:"path"`    // 仅sqlite
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成数据库连接字符串
// mysql格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（America/Sao_Paulo → America%2FSao_Paulo）
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode, d.Loc)
	case "sqlite":
		return d.Path
	default:
		loc := url.QueryEscape(d.Loc)
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
			d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
	}
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	ListCacheTTL time.Duration `mapstructure:"list_cache_ttl"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug | info | warn | error
	Format     string `mapstructure:"format"` // console | json
	Output     string `mapstructure:"output"` // stdout | stderr | /path/to/file
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

// LookupConfig ISBN查询相关配置
type LookupConfig struct {
	CacheTTL  time.Duration   `mapstructure:"cache_ttl"`
	PublicAPI PublicAPIConfig `mapstructure:"public_api"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
}

// PublicAPIConfig 公共图书元数据API（Google Books）
type PublicAPIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"` // 可选
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScraperConfig 抓取任务服务（Apify风格的 提交-轮询-取结果 接口）
type ScraperConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BaseURL        string        `mapstructure:"base_url"`
	ActorID        string        `mapstructure:"actor_id"`
	Token          string        `mapstructure:"token"` // 环境变量兜底：BOOKSTORE_LOOKUP_SCRAPER_TOKEN
	SearchURL      string        `mapstructure:"search_url"`
	MaxItems       int           `mapstructure:"max_items"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// lookupSlack 公共API请求与抓取服务单次请求的耗时余量
const lookupSlack = 30 * time.Second

// MaxLookupDuration 一次ISBN查询在抓取服务上的最长轮询时间
// 13位ISBN无结果时换算为ISBN-10再跑一次任务,所以是两倍
func (s ScraperConfig) MaxLookupDuration() time.Duration {
	return 2 * s.PollInterval * time.Duration(s.MaxAttempts)
}

// BreakerConfig 外部数据源熔断配置
type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

// ImportConfig 表格导入配置
type ImportConfig struct {
	MaxFileSize int64         `mapstructure:"max_file_size"` // 字节
	JobTTL      time.Duration `mapstructure:"job_ttl"`       // 异步任务进度保留时长
}

// MQConfig 消息队列配置
type MQConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange_type"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	CollectorURL string `mapstructure:"collector_url"`
}

// MetricsConfig 监控指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CORSConfig 跨域配置(管理后台前端单独部署)
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"` // 秒
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 通过环境变量BOOKSTORE_ENV指定环境（如config.prod.yaml）
// 3. 当前目录下的.env文件（可选）
// 4. 环境变量覆盖（如BOOKSTORE_DATABASE_PASSWORD）
func Load() (*Config, error) {
	// .env不存在不是错误
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOOKSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 环境特定配置（如config.prod.yaml）
	if env := v.GetString("env"); env != "" {
		v.SetConfigName("config." + env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults 默认值
// 轮询参数对应抓取服务的实际耗时：每3秒一次，最多30次
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.list_cache_ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("lookup.cache_ttl", 24*time.Hour)
	v.SetDefault("lookup.public_api.enabled", true)
	v.SetDefault("lookup.public_api.base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("lookup.public_api.timeout", 10*time.Second)
	v.SetDefault("lookup.scraper.enabled", true)
	v.SetDefault("lookup.scraper.base_url", "https://api.apify.com/v2")
	v.SetDefault("lookup.public_api.api_key", "")
	v.SetDefault("lookup.scraper.token", "")
	v.SetDefault("lookup.scraper.actor_id", "junglee~free-amazon-product-scraper")
	v.SetDefault("lookup.scraper.search_url", "https://www.amazon.com.br/s?k=%s&i=stripbooks")
	v.SetDefault("lookup.scraper.max_items", 5)
	v.SetDefault("lookup.scraper.poll_interval", 3*time.Second)
	v.SetDefault("lookup.scraper.max_attempts", 30)
	v.SetDefault("lookup.scraper.request_timeout", 30*time.Second)
	v.SetDefault("lookup.breaker.max_requests", 1)
	v.SetDefault("lookup.breaker.interval", time.Minute)
	v.SetDefault("lookup.breaker.timeout", 30*time.Second)
	v.SetDefault("lookup.breaker.consecutive_failures", 5)

	v.SetDefault("import.max_file_size", 10<<20)
	v.SetDefault("import.job_ttl", 24*time.Hour)

	v.SetDefault("mq.exchange", "bookstore.events")
	v.SetDefault("mq.exchange_type", "topic")
	v.SetDefault("tracing.service_name", "bookstore-admin")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.expose_headers", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.max_age", 43200)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	if cfg.Lookup.Scraper.MaxAttempts <= 0 {
		return fmt.Errorf("lookup.scraper.max_attempts必须大于0")
	}
	if cfg.Lookup.Scraper.PollInterval <= 0 {
		return fmt.Errorf("lookup.scraper.poll_interval必须大于0")
	}

	// ISBN查询是同步接口,写超时必须覆盖抓取的最长耗时;0表示不限制
	if sc := cfg.Lookup.Scraper; sc.Enabled && cfg.Server.WriteTimeout > 0 {
		if need := sc.MaxLookupDuration() + lookupSlack; cfg.Server.WriteTimeout < need {
			return fmt.Errorf("server.write_timeout(%s)小于ISBN查询的最长耗时(%s)", cfg.Server.WriteTimeout, need)
		}
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用消息队列时必须配置mq.url")
	}

	return nil
}
