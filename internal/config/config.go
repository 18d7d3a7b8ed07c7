package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	AppEnv  string `mapstructure:"APP_ENV"`

	StoreDriver string `mapstructure:"STORE_DRIVER"` // "dynamo" | "mongo"

	AWSRegion      string       `mapstructure:"AWS_REGION"`
	AWSEndpointURL string       `mapstructure:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string       `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string       `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables `mapstructure:",squash"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	Tokens Tokens `mapstructure:",squash"`

	OTPTTL       time.Duration `mapstructure:"OTP_TTL"`
	OTPRetention time.Duration `mapstructure:"OTP_RETENTION"`

	DispatchMode  string `mapstructure:"DISPATCH_MODE"` // "direct" | "queue"
	RedisAddr     string `mapstructure:"REDIS_ADDR"`     // empty disables the shared rate limit and the queue
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLimitDB  int    `mapstructure:"REDIS_LIMIT_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SNSRegion    string `mapstructure:"SNS_REGION"`

	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	AllowedOrigins []string      `mapstructure:"-"` // CORS allowed origins, explicit since cookies are sent
	TrustProxy     bool          `mapstructure:"TRUST_PROXY"` // take the client IP from forwarding headers
	RouteLimit     int           `mapstructure:"ROUTE_RATE_LIMIT"`
	RouteWindow    time.Duration `mapstructure:"ROUTE_RATE_WINDOW"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPs          string `mapstructure:"DYNAMO_TABLE_OTPS"`
	Donors        string `mapstructure:"DYNAMO_TABLE_DONORS"`
	Camps         string `mapstructure:"DYNAMO_TABLE_CAMPS"`
	ContactClaims string `mapstructure:"DYNAMO_TABLE_CONTACT_CLAIMS"`
}

// Tokens groups the signing settings handed to the JWT provider.
type Tokens struct {
	AccessSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessExpiry  time.Duration `mapstructure:"ACCESS_TOKEN_EXPIRY"`
	RefreshSecret string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	RefreshExpiry time.Duration `mapstructure:"REFRESH_TOKEN_EXPIRY"`
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

var defaults = map[string]interface{}{
	"APP_PORT":                    "3000",
	"APP_ENV":                     "development",
	"STORE_DRIVER":                "dynamo",
	"AWS_REGION":                  "us-east-1",
	"AWS_ENDPOINT_URL":            "",
	"AWS_ACCESS_KEY_ID":           "",
	"AWS_SECRET_ACCESS_KEY":       "",
	"DYNAMO_TABLE_OTPS":           "otps",
	"DYNAMO_TABLE_DONORS":         "donors",
	"DYNAMO_TABLE_CAMPS":          "camps",
	"DYNAMO_TABLE_CONTACT_CLAIMS": "contact_claims",
	"MONGO_URI":                   "mongodb://localhost:27017",
	"MONGO_DATABASE":              "bloodlink",
	"ACCESS_TOKEN_SECRET":         "",
	"ACCESS_TOKEN_EXPIRY":         "24h",
	"REFRESH_TOKEN_SECRET":        "",
	"REFRESH_TOKEN_EXPIRY":        "240h",
	"OTP_TTL":                     "10m",
	"OTP_RETENTION":               "24h",
	"DISPATCH_MODE":               "direct",
	"REDIS_ADDR":                  "",
	"REDIS_PASSWORD":              "",
	"REDIS_LIMIT_DB":              0,
	"REDIS_QUEUE_DB":              1,
	"SMTP_HOST":                   "localhost",
	"SMTP_PORT":                   "1025",
	"SMTP_FROM":                   "noreply@example.com",
	"SMTP_USERNAME":               "",
	"SMTP_PASSWORD":               "",
	"SNS_REGION":                  "us-east-1",
	"COOKIE_SECURE":               true,
	"ALLOWED_ORIGINS":             "http://localhost:5173",
	"TRUST_PROXY":                 false,
	"ROUTE_RATE_LIMIT":            50,
	"ROUTE_RATE_WINDOW":           "15m",
}

// Load reads .env when present, then environment variables over defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Tokens.AccessSecret == "" || c.Tokens.RefreshSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}
	switch c.StoreDriver {
	case "dynamo", "mongo":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.DispatchMode {
	case "direct":
	case "queue":
		if c.RedisAddr == "" {
			return fmt.Errorf("DISPATCH_MODE=queue requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown DISPATCH_MODE %q", c.DispatchMode)
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must list at least one origin")
	}
	for _, o := range c.AllowedOrigins {
		// Browsers refuse a wildcard origin on credentialed responses.
		if strings.Contains(o, "*") {
			return fmt.Errorf("ALLOWED_ORIGINS must not contain wildcards, got %q", o)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
