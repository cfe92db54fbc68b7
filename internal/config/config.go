package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Translate TranslateConfig `yaml:"translate"`
	TTS       TTSConfig       `yaml:"tts"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token signing and account verification settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-required:"true"`
	JWTIssuer       string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"        env-default:"glossa"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"AUTH_ACCESS_TOKEN_TTL"  env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_REFRESH_TOKEN_TTL" env-default:"720h"`
	VerifyTokenTTL  time.Duration `yaml:"verify_token_ttl"  env:"AUTH_VERIFY_TOKEN_TTL"  env-default:"1h"`
	ResetTokenTTL   time.Duration `yaml:"reset_token_ttl"   env:"AUTH_RESET_TOKEN_TTL"   env-default:"1h"`
	// PasswordHashCost is the bcrypt cost factor. Tests use the bcrypt
	// minimum for speed.
	PasswordHashCost int `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"12"`
	// FrontendURL is the base for verification/reset links embedded in emails.
	FrontendURL string `yaml:"frontend_url" env:"AUTH_FRONTEND_URL" env-default:"http://localhost:3000"`
}

// OpenAIConfig holds chat completion and speech-to-text provider settings.
type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"    env:"OPENAI_API_KEY" env-required:"true"`
	BaseURL   string `yaml:"base_url"   env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	ChatModel string `yaml:"chat_model" env:"OPENAI_CHAT_MODEL" env-default:"gpt-4.1"`
	STTModel  string `yaml:"stt_model"  env:"OPENAI_STT_MODEL" env-default:"whisper-1"`
}

// TranslateConfig holds Google Translate API settings.
type TranslateConfig struct {
	APIKey  string `yaml:"api_key"  env:"GOOGLE_TRANSLATE_API_KEY"`
	BaseURL string `yaml:"base_url" env:"GOOGLE_TRANSLATE_BASE_URL" env-default:"https://translation.googleapis.com"`
}

// TTSConfig holds ElevenLabs text-to-speech settings.
type TTSConfig struct {
	APIKey       string `yaml:"api_key"       env:"ELEVEN_API_KEY" env-required:"true"`
	BaseURL      string `yaml:"base_url"      env:"ELEVEN_BASE_URL" env-default:"https://api.elevenlabs.io"`
	ModelID      string `yaml:"model_id"      env:"ELEVEN_MODEL_ID" env-default:"eleven_multilingual_v2"`
	OutputFormat string `yaml:"output_format" env:"ELEVEN_OUTPUT_FORMAT" env-default:"mp3_44100_128"`
}

// SMTPConfig holds email delivery settings.
type SMTPConfig struct {
	Host     string `yaml:"host"     env:"SMTP_HOST" env-default:"smtp.example.com"`
	Port     int    `yaml:"port"     env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASS"`
	From     string `yaml:"from"     env:"EMAIL_FROM" env-default:"no-reply@example.com"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"http://localhost:3000"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-IP rate limiting for the auth endpoints.
type RateLimitConfig struct {
	AuthPerMinute   int           `yaml:"auth_per_minute"  env:"RATELIMIT_AUTH_PER_MINUTE"  env-default:"30"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATELIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
