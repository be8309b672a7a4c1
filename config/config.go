package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Selection configuration
	TotalDays   int
	PerDay      int
	Categories  []string
	SoldMin     int
	RatingMin   float64
	SearchLimit int

	// Harvester configuration
	SearchBaseURL string
	FetchDelay    time.Duration
	BlockTime     time.Duration

	// State and output
	StatePath string
	OutputDir string
	SheetPath string
	UseSheet  bool

	// Memcache configuration (rate-limit block cache, optional)
	MemcacheAddr string

	// Redis configuration (pick publisher, optional)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Copywriter configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Observability
	MetricsAddr string

	// Environment
	Timezone    string
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	totalDays, _ := strconv.Atoi(getEnv("TOTAL_DAYS", "30"))
	perDay, _ := strconv.Atoi(getEnv("PER_DAY", "3"))
	soldMin, _ := strconv.Atoi(getEnv("SOLD_MIN", "100"))
	ratingMin, _ := strconv.ParseFloat(getEnv("RATING_MIN", "4.5"), 64)
	searchLimit, _ := strconv.Atoi(getEnv("SEARCH_LIMIT", "50"))
	fetchDelayMs, _ := strconv.Atoi(getEnv("FETCH_DELAY_MS", "600"))
	blockTime, _ := strconv.Atoi(getEnv("BLOCK_TIME_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	return Config{
		TotalDays:            totalDays,
		PerDay:               perDay,
		Categories:           splitCategories(getEnv("CATEGORIES", "Ofertas gerais,Moda,Beleza,Eletrônicos,Casa e Decoração,Pets")),
		SoldMin:              soldMin,
		RatingMin:            ratingMin,
		SearchLimit:          searchLimit,
		SearchBaseURL:        getEnv("SEARCH_URL", "https://shopee.com.br"),
		FetchDelay:           time.Duration(fetchDelayMs) * time.Millisecond,
		BlockTime:            time.Duration(blockTime) * time.Second,
		StatePath:            getEnv("STATE_PATH", "state.json"),
		OutputDir:            getEnv("OUTPUT_DIR", "output"),
		SheetPath:            getEnv("SHEET_CSV_PATH", "output/planilha.csv"),
		UseSheet:             getEnv("USE_SHEETS", "1") == "1",
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "achadinhos"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLen,
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MetricsAddr:          getEnv("METRICS_ADDR", ""),
		Timezone:             getEnv("TIMEZONE", "America/Sao_Paulo"),
		Environment:          getEnv("JUNIOR_ENVIRONMENT", "development"),
	}
}

// Validate ensures all configuration values are coherent
func (c *Config) Validate() error {
	if c.TotalDays <= 0 {
		return fmt.Errorf("total days must be positive")
	}
	if c.PerDay <= 0 {
		return fmt.Errorf("per day target must be positive")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("category list cannot be empty")
	}
	if c.SoldMin < 0 {
		return fmt.Errorf("minimum sold cannot be negative")
	}
	if c.RatingMin < 0 || c.RatingMin > 5 {
		return fmt.Errorf("minimum rating must be between 0 and 5")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search limit must be positive")
	}
	if c.FetchDelay < 0 {
		return fmt.Errorf("fetch delay cannot be negative")
	}
	parsed, err := url.Parse(c.SearchBaseURL)
	if err != nil {
		return fmt.Errorf("invalid search base URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("search base URL must include a host")
	}
	if c.StatePath == "" {
		return fmt.Errorf("state path cannot be empty")
	}
	if c.RedisStreamCount <= 0 {
		return fmt.Errorf("redis stream count must be positive")
	}
	return nil
}

func splitCategories(raw string) []string {
	var categories []string
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			categories = append(categories, c)
		}
	}
	return categories
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
