package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/khanghh/photoshare/params"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultListenAddr     = ":3000"
	DefaultStaticDir      = "./static"
	DefaultUploadDir      = "./static/uploads"
	DefaultPublicPath     = "/static/uploads"
	DefaultDatabaseDriver = "sqlite"
	DefaultDatabaseDsn    = "photoshare.db"
	DefaultKafkaTopic     = "photoshare.events"
)

var (
	ErrMissingSecretKey     = errors.New("token.secretKey is required")
	ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")
	ErrUnsupportedDriver    = errors.New("unsupported database driver")
	ErrInvalidTokenTTL      = errors.New("token ttl must be positive")
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql, postgres or sqlite
	Dsn             string        `mapstructure:"dsn"`
	Replicas        []string      `mapstructure:"replicas"`
	TablePrefix     string        `mapstructure:"tablePrefix"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
}

type TokenConfig struct {
	SecretKey  string        `mapstructure:"secretKey"`
	Algorithm  string        `mapstructure:"algorithm"`
	AccessTTL  time.Duration `mapstructure:"accessTTL"`
	RefreshTTL time.Duration `mapstructure:"refreshTTL"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"` // empty selects the in-process memory storage
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type StorageConfig struct {
	UploadDir  string `mapstructure:"uploadDir"`
	PublicPath string `mapstructure:"publicPath"`
}

type Config struct {
	Debug        bool           `mapstructure:"debug"`
	BaseURL      string         `mapstructure:"baseURL"`
	ListenAddr   string         `mapstructure:"listenAddr"`
	StaticDir    string         `mapstructure:"staticDir"`
	AllowOrigins []string       `mapstructure:"allowOrigins"`
	BcryptCost   int            `mapstructure:"bcryptCost"`
	Token        TokenConfig    `mapstructure:"token"`
	Database     DatabaseConfig `mapstructure:"database"`
	Redis        RedisConfig    `mapstructure:"redis"`
	Kafka        KafkaConfig    `mapstructure:"kafka"`
	Storage      StorageConfig  `mapstructure:"storage"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = DefaultUploadDir
	}
	if c.Storage.PublicPath == "" {
		c.Storage.PublicPath = DefaultPublicPath
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultKafkaTopic
	}

	if c.Token.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Token.Algorithm == "" {
		c.Token.Algorithm = params.DefaultSigningAlgorithm
	}
	c.Token.Algorithm = strings.ToUpper(c.Token.Algorithm)
	switch c.Token.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, c.Token.Algorithm)
	}
	if c.Token.AccessTTL == 0 {
		c.Token.AccessTTL = params.DefaultAccessTokenTTL
	}
	if c.Token.RefreshTTL == 0 {
		c.Token.RefreshTTL = params.DefaultRefreshTokenTTL
	}
	if c.Token.AccessTTL < 0 || c.Token.RefreshTTL < 0 {
		return ErrInvalidTokenTTL
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDatabaseDriver
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	switch c.Database.Driver {
	case "mysql", "postgres":
	case "sqlite":
		if c.Database.Dsn == "" {
			c.Database.Dsn = DefaultDatabaseDsn
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, c.Database.Driver)
	}
	return nil
}

// loadDotEnv exports the variables of an optional .env file into the process environment.
func loadDotEnv(filename string) error {
	if err := godotenv.Load(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
