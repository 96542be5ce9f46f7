package config

import (
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Feed      FeedConfig      `yaml:"feed"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
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

// AuthConfig holds access-token validation settings. Tokens are issued by
// the upstream auth service with the same secret.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"jpkr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// FeedConfig holds the example feed tunables. Zero is a meaningful value
// for most of them, so defaults come from defaultConfig rather than
// env-default tags, which cleanenv applies to any zero field.
type FeedConfig struct {
	Tau0        time.Duration `yaml:"tau0"         env:"FEED_TAU0"`
	Alpha       float64       `yaml:"alpha"        env:"FEED_ALPHA"`
	LambdaR     float64       `yaml:"lambda_r"     env:"FEED_LAMBDA_R"`
	LambdaC     float64       `yaml:"lambda_c"     env:"FEED_LAMBDA_C"`
	LambdaD     float64       `yaml:"lambda_d"     env:"FEED_LAMBDA_D"`
	UnseenBonus float64       `yaml:"unseen_bonus" env:"FEED_UNSEEN_BONUS"`
	ExpCap      float64       `yaml:"exp_cap"      env:"FEED_EXP_CAP"`
	SkillMax    float64       `yaml:"skill_max"    env:"FEED_SKILL_MAX"`

	Temperature   float64 `yaml:"temperature"     env:"FEED_TEMPERATURE"`
	WordMMRLambda float64 `yaml:"word_mmr_lambda" env:"FEED_WORD_MMR_LAMBDA"`
	SentMMRLambda float64 `yaml:"sent_mmr_lambda" env:"FEED_SENT_MMR_LAMBDA"`
	MMRJitter     float64 `yaml:"mmr_jitter"      env:"FEED_MMR_JITTER"`
	MMRScanLimit  int     `yaml:"mmr_scan_limit"  env:"FEED_MMR_SCAN_LIMIT"`
	Gamma         float64 `yaml:"gamma"           env:"FEED_GAMMA"`

	RemindProb       float64       `yaml:"remind_prob"        env:"FEED_REMIND_PROB"`
	HiSkillThreshold float64       `yaml:"hi_skill_threshold" env:"FEED_HI_SKILL_THRESHOLD"`
	RemindGap        time.Duration `yaml:"remind_gap"         env:"FEED_REMIND_GAP"`
	RemindMax        int           `yaml:"remind_max"         env:"FEED_REMIND_MAX"`

	PerWordCandidateCap int           `yaml:"per_word_candidate_cap" env:"FEED_PER_WORD_CANDIDATE_CAP"`
	WordsK              int           `yaml:"words_k"                env:"FEED_WORDS_K"`
	ExamplesPerWord     int           `yaml:"examples_per_word"      env:"FEED_EXAMPLES_PER_WORD"`
	URLTTL              time.Duration `yaml:"url_ttl"                env:"FEED_URL_TTL"`
	Strategy            string        `yaml:"strategy"               env:"FEED_STRATEGY"`
}

// ToDomain converts the loaded section into the feed service's config.
func (c FeedConfig) ToDomain() domain.FeedConfig {
	return domain.FeedConfig{
		Score: domain.ScoreParams{
			Tau0:        c.Tau0,
			Alpha:       c.Alpha,
			LambdaR:     c.LambdaR,
			LambdaC:     c.LambdaC,
			LambdaD:     c.LambdaD,
			UnseenBonus: c.UnseenBonus,
			ExpCap:      c.ExpCap,
			SkillMax:    c.SkillMax,
		},
		Temperature:         c.Temperature,
		WordMMRLambda:       c.WordMMRLambda,
		SentMMRLambda:       c.SentMMRLambda,
		MMRJitter:           c.MMRJitter,
		MMRScanLimit:        c.MMRScanLimit,
		Gamma:               c.Gamma,
		RemindProb:          c.RemindProb,
		HiSkillThreshold:    c.HiSkillThreshold,
		RemindGap:           c.RemindGap,
		RemindMax:           c.RemindMax,
		PerWordCandidateCap: c.PerWordCandidateCap,
		WordsK:              c.WordsK,
		ExamplesPerWord:     c.ExamplesPerWord,
		URLTTL:              c.URLTTL,
		Strategy:            domain.FeedStrategy(c.Strategy),
	}
}

func feedConfigFrom(d domain.FeedConfig) FeedConfig {
	return FeedConfig{
		Tau0:                d.Score.Tau0,
		Alpha:               d.Score.Alpha,
		LambdaR:             d.Score.LambdaR,
		LambdaC:             d.Score.LambdaC,
		LambdaD:             d.Score.LambdaD,
		UnseenBonus:         d.Score.UnseenBonus,
		ExpCap:              d.Score.ExpCap,
		SkillMax:            d.Score.SkillMax,
		Temperature:         d.Temperature,
		WordMMRLambda:       d.WordMMRLambda,
		SentMMRLambda:       d.SentMMRLambda,
		MMRJitter:           d.MMRJitter,
		MMRScanLimit:        d.MMRScanLimit,
		Gamma:               d.Gamma,
		RemindProb:          d.RemindProb,
		HiSkillThreshold:    d.HiSkillThreshold,
		RemindGap:           d.RemindGap,
		RemindMax:           d.RemindMax,
		PerWordCandidateCap: d.PerWordCandidateCap,
		WordsK:              d.WordsK,
		ExamplesPerWord:     d.ExamplesPerWord,
		URLTTL:              d.URLTTL,
		Strategy:            string(d.Strategy),
	}
}

// defaultConfig pre-fills the fields whose zero value is meaningful. The
// YAML file and ENV are then read on top of it.
func defaultConfig() Config {
	return Config{
		CORS:    CORSConfig{AllowCredentials: true},
		Feed:    feedConfigFrom(domain.DefaultFeedConfig()),
		Storage: StorageConfig{UseSSL: true},
	}
}

// StorageConfig holds the S3-compatible bucket that audio and image assets
// live in. When disabled, feed items carry no media URLs.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"    env:"STORAGE_ENABLED"    env-default:"false"`
	Endpoint  string `yaml:"endpoint"   env:"STORAGE_ENDPOINT"`
	Region    string `yaml:"region"     env:"STORAGE_REGION"     env-default:"us-east-1"`
	Bucket    string `yaml:"bucket"     env:"STORAGE_BUCKET"`
	AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl"    env:"STORAGE_USE_SSL"`
}

// EmbeddingConfig holds the embedding provider used by the backfill tool.
type EmbeddingConfig struct {
	APIKey      string `yaml:"api_key"     env:"EMBEDDING_API_KEY"`
	Model       string `yaml:"model"       env:"EMBEDDING_MODEL"       env-default:"gemini-embedding-001"`
	Dimensions  int    `yaml:"dimensions"  env:"EMBEDDING_DIMENSIONS"  env-default:"768"`
	BatchSize   int    `yaml:"batch_size"  env:"EMBEDDING_BATCH_SIZE"  env-default:"64"`
	Concurrency int    `yaml:"concurrency" env:"EMBEDDING_CONCURRENCY" env-default:"4"`
}
