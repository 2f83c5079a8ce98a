package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		BaseURL      string        `yaml:"base_url" default:"http://localhost:8080"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
		GRPCEnabled  bool          `yaml:"grpc_enabled" default:"true"`

		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver          string        `yaml:"driver" default:"sqlite"` // sqlite, postgres, mysql
		DSN             string        `yaml:"dsn" default:"jobboard.db"`
		MaxIdleConns    int           `yaml:"max_idle_conns" default:"10"`
		MaxOpenConns    int           `yaml:"max_open_conns" default:"100"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"1h"`
		AutoMigrate     bool          `yaml:"auto_migrate" default:"true"`
	} `yaml:"database"`

	Redis struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Identity struct {
		RequireConfirmedAccount bool          `yaml:"require_confirmed_account" default:"true"`
		SessionIdleTimeout      time.Duration `yaml:"session_idle_timeout" default:"30m"`
		CookieName              string        `yaml:"cookie_name" default:".JobBoard.Session"`
		CookieSecure            bool          `yaml:"cookie_secure" default:"false"`
		AdminEmail              string        `yaml:"admin_email" default:"admin@gmail.com"`
		AdminPassword           string        `yaml:"admin_password"`

		Defaults struct {
			CompanyName        string `yaml:"company_name" default:"Default Company"`
			FullName           string `yaml:"full_name" default:"Default Name"`
			Resume             string `yaml:"resume" default:"Default Resume"`
			ContactInformation string `yaml:"contact_information" default:"Default Contact Information"`
		} `yaml:"defaults"`
	} `yaml:"identity"`

	SMTP struct {
		Enabled     bool   `yaml:"enabled" default:"false"`
		Host        string `yaml:"host"`
		Port        int    `yaml:"port" default:"587"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		FromAddress string `yaml:"from_address"`
	} `yaml:"smtp"`

	SMS struct {
		Enabled   bool   `yaml:"enabled" default:"false"`
		Provider  string `yaml:"provider" default:"vonage"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		From      string `yaml:"from" default:"VonageAPI"`
	} `yaml:"sms"`

	OTP struct {
		TTL          time.Duration `yaml:"ttl" default:"5m"`
		RateLimit    int           `yaml:"rate_limit" default:"5"` // codes per minute per number
		Burst        int           `yaml:"burst" default:"3"`
		CleanupEvery time.Duration `yaml:"cleanup_every" default:"1m"`
	} `yaml:"otp"`

	Storage struct {
		Backend  string `yaml:"backend" default:"local"` // local, spaces
		LocalDir string `yaml:"local_dir" default:"wwwroot/images"`
		URLPath  string `yaml:"url_path" default:"/images"`
		MaxBytes int64  `yaml:"max_bytes" default:"5242880"`
	} `yaml:"storage"`

	DigitalOcean struct {
		Spaces struct {
			BucketURL       string `yaml:"bucket_url"`
			CDNEndpoint     string `yaml:"cdn_endpoint"`
			AccessKeyID     string `yaml:"access_key_id"`
			AccessKeySecret string `yaml:"access_key_secret"`
			Region          string `yaml:"region" default:"blr1"`
			BucketName      string `yaml:"bucket_name" default:"jobboard-images"`
			Prefix          string `yaml:"prefix" default:"jobs/images"`
		} `yaml:"spaces"`
	} `yaml:"digitalocean"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []LogAdapter `yaml:"adapters"`
	} `yaml:"logging"`
}

// LogAdapter configures one logging output
type LogAdapter struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.GRPCEnabled = true

	config.Database.Driver = "sqlite"
	config.Database.DSN = "jobboard.db"
	config.Database.MaxIdleConns = 10
	config.Database.MaxOpenConns = 100
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.AutoMigrate = true

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// The session idle timeout is fixed at 30 minutes unless overridden.
	config.Identity.RequireConfirmedAccount = true
	config.Identity.SessionIdleTimeout = 30 * time.Minute
	config.Identity.CookieName = ".JobBoard.Session"
	config.Identity.AdminEmail = "admin@gmail.com"
	config.Identity.AdminPassword = "P@ssw0rd"
	config.Identity.Defaults.CompanyName = "Default Company"
	config.Identity.Defaults.FullName = "Default Name"
	config.Identity.Defaults.Resume = "Default Resume"
	config.Identity.Defaults.ContactInformation = "Default Contact Information"

	config.SMTP.Port = 587

	config.SMS.Provider = "vonage"
	config.SMS.From = "VonageAPI"

	config.OTP.TTL = 5 * time.Minute
	config.OTP.RateLimit = 5
	config.OTP.Burst = 3
	config.OTP.CleanupEvery = time.Minute

	config.Storage.Backend = "local"
	config.Storage.LocalDir = "wwwroot/images"
	config.Storage.URLPath = "/images"
	config.Storage.MaxBytes = 5 << 20

	config.DigitalOcean.Spaces.Region = "blr1"
	config.DigitalOcean.Spaces.BucketName = "jobboard-images"
	config.DigitalOcean.Spaces.Prefix = "jobs/images"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	config.loadFromEnv()

	return config, nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		c.Server.BaseURL = baseURL
	}

	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if requireConfirmed := os.Getenv("REQUIRE_CONFIRMED_ACCOUNT"); requireConfirmed != "" {
		c.Identity.RequireConfirmedAccount = requireConfirmed == "true" || requireConfirmed == "1"
	}

	if adminPassword := os.Getenv("ADMIN_PASSWORD"); adminPassword != "" {
		c.Identity.AdminPassword = adminPassword
	}

	// SMTP configuration
	if host := os.Getenv("SMTP_HOST"); host != "" {
		c.SMTP.Host = host
		c.SMTP.Enabled = true
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.SMTP.Port = p
		}
	}

	if username := os.Getenv("SMTP_USERNAME"); username != "" {
		c.SMTP.Username = username
	}

	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		c.SMTP.Password = password
	}

	if from := os.Getenv("SMTP_FROM_ADDRESS"); from != "" {
		c.SMTP.FromAddress = from
	}

	// Vonage configuration
	if apiKey := os.Getenv("VONAGE_API_KEY"); apiKey != "" {
		c.SMS.APIKey = apiKey
		c.SMS.Enabled = true
	}

	if apiSecret := os.Getenv("VONAGE_API_SECRET"); apiSecret != "" {
		c.SMS.APISecret = apiSecret
	}

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}

	// DigitalOcean Spaces configuration
	if bucketURL := os.Getenv("BUCKET_URL"); bucketURL != "" {
		c.DigitalOcean.Spaces.BucketURL = bucketURL
	}

	if cdnEndpoint := os.Getenv("BUCKET_CDN_ENDPOINT"); cdnEndpoint != "" {
		c.DigitalOcean.Spaces.CDNEndpoint = cdnEndpoint
	}

	if accessKeyID := os.Getenv("BUCKET_ACCESS_KEY_ID"); accessKeyID != "" {
		c.DigitalOcean.Spaces.AccessKeyID = accessKeyID
	}

	if accessKeySecret := os.Getenv("BUCKET_ACCESS_KEY_SECRET"); accessKeySecret != "" {
		c.DigitalOcean.Spaces.AccessKeySecret = accessKeySecret
	}

	if region := os.Getenv("BUCKET_REGION"); region != "" {
		c.DigitalOcean.Spaces.Region = region
	}

	if bucketName := os.Getenv("BUCKET_NAME"); bucketName != "" {
		c.DigitalOcean.Spaces.BucketName = bucketName
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
