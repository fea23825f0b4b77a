package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB             DBConfig
	Server         ServerConfig
	Redis          RedisConfig
	AI             AIConfig
	Logger         LoggerConfig
	Recommendation RecommendationConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AIConfig holds the static LLM endpoint configuration loaded once at startup.
// The endpoint kind (chat vs completion) is inferred from the URL, not configured.
type AIConfig struct {
	URL         string
	Model       string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	Temperature float64
}

type LoggerConfig struct {
	Level string
	Env   string
}

type RecommendationConfig struct {
	CacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetDefault("ai.timeout", 60)
	viper.SetDefault("ai.max_retries", 2)
	viper.SetDefault("ai.retry_delay", 1)
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("recommendation.cache_ttl", 300)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		AI: AIConfig{
			URL:         viper.GetString("ai.url"),
			Model:       viper.GetString("ai.model"),
			APIKey:      viper.GetString("ai.api_key"),
			Timeout:     viper.GetDuration("ai.timeout") * time.Second,
			MaxRetries:  viper.GetInt("ai.max_retries"),
			RetryDelay:  viper.GetDuration("ai.retry_delay") * time.Second,
			Temperature: viper.GetFloat64("ai.temperature"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Recommendation: RecommendationConfig{
			CacheTTL: viper.GetDuration("recommendation.cache_ttl") * time.Second,
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if aiURL := os.Getenv("AI_URL"); aiURL != "" {
		config.AI.URL = aiURL
	}
	if aiModel := os.Getenv("AI_MODEL_NAME"); aiModel != "" {
		config.AI.Model = aiModel
	}
	if aiKey := os.Getenv("AI_API_KEY"); aiKey != "" {
		config.AI.APIKey = aiKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}

func (c *Config) GetDSN() string {
	// Oracle DSN format: user/password@host:port/service
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
