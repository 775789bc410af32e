package config

import (
	"log"
	"net"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	AI        AIConfig
	Export    ExportConfig
	Company   CompanyConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	ReadOnly bool
}

// DatabaseConfig selects the store. Driver "memory" keeps everything in
// process and ignores the connection settings.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// StorageConfig points at the S3-compatible bucket holding uploaded assets.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
	UploadMaxSize int64
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	ExportTTL time.Duration
}

type RabbitMQConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Queue    string
}

type AIConfig struct {
	APIKey string
	Model  string
}

// ExportConfig holds asset references and limits for document rendering. Refs
// are storage object names, http(s) URLs or local file paths.
type ExportConfig struct {
	FontRef        string
	LogoRef        string
	SealRef        string
	FetchTimeout   time.Duration
	SigningBaseURL string
	PhotosPerPage  int
}

// CompanyConfig is the issuing company printed on every document.
type CompanyConfig struct {
	NameZH      string
	NameEN      string
	Address     []string
	ContactLine string
	BankName    string
	AccountName string
	AccountNo   string
}

type SchedulerConfig struct {
	ExpirySpec string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	viper.SetDefault("APP_NAME", "quotation-engine")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_READ_ONLY", false)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "quotations")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Taipei")
	viper.SetDefault("STORAGE_BUCKET", "quotation-assets")
	viper.SetDefault("STORAGE_USE_SSL", false)
	viper.SetDefault("STORAGE_PRESIGN_EXPIRY_MINUTES", 60)
	viper.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_EXPORT_TTL_MINUTES", 30)
	viper.SetDefault("RABBITMQ_ENABLED", false)
	viper.SetDefault("RABBITMQ_HOST", "localhost")
	viper.SetDefault("RABBITMQ_PORT", "5672")
	viper.SetDefault("RABBITMQ_USER", "guest")
	viper.SetDefault("RABBITMQ_PASSWORD", "guest")
	viper.SetDefault("RABBITMQ_QUEUE", "quotation.status")
	viper.SetDefault("AI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("EXPORT_FONT_REF", "./assets/fonts/NotoSansTC-Regular.ttf")
	viper.SetDefault("EXPORT_FETCH_TIMEOUT_SECONDS", 15)
	viper.SetDefault("EXPORT_PHOTOS_PER_PAGE", 2)
	viper.SetDefault("COMPANY_NAME_ZH", "")
	viper.SetDefault("COMPANY_NAME_EN", "")
	viper.SetDefault("COMPANY_ADDRESS", []string{})
	viper.SetDefault("SCHEDULER_EXPIRY_SPEC", "@every 1h")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			ReadOnly: viper.GetBool("APP_READ_ONLY"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Storage: StorageConfig{
			Endpoint:      viper.GetString("STORAGE_ENDPOINT"),
			AccessKey:     viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:     viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:        viper.GetString("STORAGE_BUCKET"),
			UseSSL:        viper.GetBool("STORAGE_USE_SSL"),
			PresignExpiry: time.Duration(viper.GetInt("STORAGE_PRESIGN_EXPIRY_MINUTES")) * time.Minute,
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		Redis: RedisConfig{
			Host:      viper.GetString("REDIS_HOST"),
			Port:      viper.GetString("REDIS_PORT"),
			Password:  viper.GetString("REDIS_PASSWORD"),
			DB:        viper.GetInt("REDIS_DB"),
			ExportTTL: time.Duration(viper.GetInt("REDIS_EXPORT_TTL_MINUTES")) * time.Minute,
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  viper.GetBool("RABBITMQ_ENABLED"),
			Host:     viper.GetString("RABBITMQ_HOST"),
			Port:     viper.GetString("RABBITMQ_PORT"),
			User:     viper.GetString("RABBITMQ_USER"),
			Password: viper.GetString("RABBITMQ_PASSWORD"),
			Queue:    viper.GetString("RABBITMQ_QUEUE"),
		},
		AI: AIConfig{
			APIKey: viper.GetString("GEMINI_API_KEY"),
			Model:  viper.GetString("AI_MODEL"),
		},
		Export: ExportConfig{
			FontRef:        viper.GetString("EXPORT_FONT_REF"),
			LogoRef:        viper.GetString("EXPORT_LOGO_REF"),
			SealRef:        viper.GetString("EXPORT_SEAL_REF"),
			FetchTimeout:   time.Duration(viper.GetInt("EXPORT_FETCH_TIMEOUT_SECONDS")) * time.Second,
			SigningBaseURL: viper.GetString("EXPORT_SIGNING_BASE_URL"),
			PhotosPerPage:  viper.GetInt("EXPORT_PHOTOS_PER_PAGE"),
		},
		Company: CompanyConfig{
			NameZH:      viper.GetString("COMPANY_NAME_ZH"),
			NameEN:      viper.GetString("COMPANY_NAME_EN"),
			Address:     viper.GetStringSlice("COMPANY_ADDRESS"),
			ContactLine: viper.GetString("COMPANY_CONTACT_LINE"),
			BankName:    viper.GetString("COMPANY_BANK_NAME"),
			AccountName: viper.GetString("COMPANY_BANK_ACCOUNT_NAME"),
			AccountNo:   viper.GetString("COMPANY_BANK_ACCOUNT_NO"),
		},
		Scheduler: SchedulerConfig{
			ExpirySpec: viper.GetString("SCHEDULER_EXPIRY_SPEC"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Addr returns host:port, or "" when redis is not configured.
func (c *RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return net.JoinHostPort(c.Host, c.Port)
}

// URL returns the AMQP connection URL.
func (c *RabbitMQConfig) URL() string {
	return "amqp://" + c.User + ":" + c.Password + "@" + net.JoinHostPort(c.Host, c.Port) + "/"
}

// Configured reports whether an object store endpoint is set.
func (c *StorageConfig) Configured() bool {
	return c.Endpoint != "" && c.AccessKey != ""
}
