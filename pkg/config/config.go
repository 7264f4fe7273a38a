package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration tree.
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Log             LogConfig             `mapstructure:"log"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Transcode       TranscodeConfig       `mapstructure:"transcode"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	Sweep           SweepConfig           `mapstructure:"sweep"`
	Credits         CreditsConfig         `mapstructure:"credits"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig MySQL settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds the gorm mysql DSN.
func (c DatabaseConfig) DSN() string {
	loc := c.Loc
	if loc == "" {
		loc = "Local"
	}
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset, c.ParseTime, loc)
}

// RedisConfig Redis settings.
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
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// GetRedisAddr returns host:port for the redis client.
func (c RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig segment event producer settings.
type KafkaConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	ClientID         string   `mapstructure:"client_id"`
	BootstrapServers []string `mapstructure:"bootstrap_servers"`
	Topics           struct {
		SegmentEvents string `mapstructure:"segment_events"`
	} `mapstructure:"topics"`
}

// JWTConfig bearer-token verification settings. The pipeline trusts the
// user identity carried by the token; issuing tokens is the auth service's job.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// MinioConfig object storage settings.
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// TranscodeConfig encoder settings.
type TranscodeConfig struct {
	FFmpeg FFmpegConfig `mapstructure:"ffmpeg"`
}

// FFmpegConfig external encoder process settings.
type FFmpegConfig struct {
	BinaryPath  string        `mapstructure:"binary_path"`
	ProbePath   string        `mapstructure:"probe_path"`
	TempDir     string        `mapstructure:"temp_dir"`
	Timeout     time.Duration `mapstructure:"timeout"`
	VideoCodec  string        `mapstructure:"video_codec"`
	VideoPreset string        `mapstructure:"video_preset"`
	Threads     int           `mapstructure:"threads"`
}

// WorkerConfig pipeline pool sizing.
type WorkerConfig struct {
	EncodeWorkers       int           `mapstructure:"encode_workers"`
	CompositeWorkers    int           `mapstructure:"composite_workers"`
	QueueCapacity       int           `mapstructure:"queue_capacity"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// SweepConfig stale-processing supervision.
type SweepConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Interval          time.Duration `mapstructure:"interval"`
	ProcessingTimeout time.Duration `mapstructure:"processing_timeout"`
	LockKey           string        `mapstructure:"lock_key"`
	LockTTL           time.Duration `mapstructure:"lock_ttl"`
}

// CreditsConfig admission-control metering.
type CreditsConfig struct {
	CostPerSegment int `mapstructure:"cost_per_segment"`
}

// ServiceRegistryConfig etcd registration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// PublicConfig outward-facing URL settings.
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// SetGlobalConfig installs the process-wide configuration.
func SetGlobalConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the process-wide configuration, nil before Load.
func GetGlobalConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// Load reads the YAML config with env overrides.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.mode", "release")
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.client_id", "segment-service")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.segment_events", "segment.events")
	viper.SetDefault("worker.encode_workers", 4)
	viper.SetDefault("worker.composite_workers", 2)
	viper.SetDefault("worker.queue_capacity", 1000)
	viper.SetDefault("worker.shutdown_grace_period", 30*time.Second)
	viper.SetDefault("sweep.enabled", true)
	viper.SetDefault("sweep.interval", time.Minute)
	viper.SetDefault("sweep.processing_timeout", 30*time.Minute)
	viper.SetDefault("sweep.lock_key", "segment:sweep:lock")
	viper.SetDefault("sweep.lock_ttl", 2*time.Minute)
	viper.SetDefault("credits.cost_per_segment", 1)
	viper.SetDefault("service_registry.enabled", false)
	viper.SetDefault("service_registry.service_name", "segment-service")

	viper.SetEnvPrefix("GO_SEGMENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

func (c *Config) normalize() {
	if c.Server.Port == 0 {
		c.Server.Port = 8084
	}
	if c.Worker.EncodeWorkers <= 0 {
		c.Worker.EncodeWorkers = 4
	}
	if c.Worker.CompositeWorkers <= 0 {
		c.Worker.CompositeWorkers = 2
	}
	if c.Worker.QueueCapacity <= 0 {
		c.Worker.QueueCapacity = 1000
	}
	if c.Credits.CostPerSegment <= 0 {
		c.Credits.CostPerSegment = 1
	}
	if c.Sweep.Interval <= 0 {
		c.Sweep.Interval = time.Minute
	}
	if c.Sweep.ProcessingTimeout <= 0 {
		c.Sweep.ProcessingTimeout = 30 * time.Minute
	}
	if strings.TrimSpace(c.Transcode.FFmpeg.BinaryPath) == "" {
		c.Transcode.FFmpeg.BinaryPath = "ffmpeg"
	}
	if strings.TrimSpace(c.Transcode.FFmpeg.ProbePath) == "" {
		c.Transcode.FFmpeg.ProbePath = "ffprobe"
	}
	if strings.TrimSpace(c.Transcode.FFmpeg.VideoCodec) == "" {
		c.Transcode.FFmpeg.VideoCodec = "libx264"
	}
	if strings.TrimSpace(c.Transcode.FFmpeg.VideoPreset) == "" {
		c.Transcode.FFmpeg.VideoPreset = "medium"
	}
}
