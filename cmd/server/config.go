package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type config struct {
	listenAddr string
	env        string
	debug      bool

	jwtSecret   string
	jwtAudience string

	geminiAPIKey string
	geminiModels []string

	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string
	minioUseSSL    bool
	minioBucket    string
	publicBaseURL  string

	supabaseURL        string
	supabaseServiceKey string

	rateStore      string
	redisAddr      string
	redisPassword  string
	redisDB        int
	ratePrefix     string
	rateSweepEvery time.Duration

	publicRateMax    int
	publicRateWindow time.Duration
	trustXFF         bool

	rateStatsEnabled   bool
	rateStatsPrefix    string
	rateStatsTTL       time.Duration
	rateStatsBucket    string
	rateStatsTrackKeys bool

	generationConcurrency int
	generationTimeout     time.Duration
	providerRPS           float64
	providerBurst         int
}

func readConfig() (config, error) {
	// .env é opcional; variáveis já exportadas têm precedência
	_ = godotenv.Load()

	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.env = getenvDefault("ENV", "development")
	cfg.debug = getenvBoolDefault("DEBUG", false)

	cfg.jwtSecret = os.Getenv("JWT_SECRET")
	cfg.jwtAudience = getenvDefault("JWT_AUDIENCE", "authenticated")

	cfg.geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.geminiModels = splitList(os.Getenv("GEMINI_MODELS"))

	cfg.minioEndpoint = os.Getenv("MINIO_ENDPOINT")
	cfg.minioAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.minioSecretKey = os.Getenv("MINIO_SECRET_KEY")
	cfg.minioUseSSL = getenvBoolDefault("MINIO_USE_SSL", false)
	cfg.minioBucket = getenvDefault("MINIO_BUCKET", "banners")
	cfg.publicBaseURL = os.Getenv("PUBLIC_BASE_URL")

	cfg.supabaseURL = os.Getenv("SUPABASE_URL")
	cfg.supabaseServiceKey = os.Getenv("SUPABASE_SERVICE_KEY")

	cfg.rateStore = strings.ToLower(getenvDefault("RATE_STORE", "memory"))
	cfg.redisAddr = os.Getenv("REDIS_ADDR")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)
	cfg.ratePrefix = getenvDefault("RATE_PREFIX", "ratelimit")
	cfg.rateSweepEvery = getenvDurationDefault("RATE_SWEEP_EVERY", 5*time.Minute)

	// listagem pública: cota por IP; atrás de proxy confiável use o XFF
	cfg.publicRateMax = getenvIntDefault("RATE_PUBLIC_MAX", 60)
	cfg.publicRateWindow = getenvDurationDefault("RATE_PUBLIC_WINDOW", time.Minute)
	cfg.trustXFF = getenvBoolDefault("RATE_TRUST_XFF", false)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "ratelimit:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	cfg.generationConcurrency = getenvIntDefault("GENERATION_CONCURRENCY", 4)
	cfg.generationTimeout = getenvDurationDefault("GENERATION_ACQUIRE_TIMEOUT", 10*time.Second)
	cfg.providerRPS = getenvFloatDefault("PROVIDER_RPS", 1)
	// burst padrão acompanha a concorrência: as primeiras vagas saem juntas
	if burst, ok := getenvInt("PROVIDER_BURST"); ok {
		cfg.providerBurst = burst
	} else {
		cfg.providerBurst = cfg.generationConcurrency
	}

	if cfg.jwtSecret == "" {
		return config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.geminiAPIKey == "" {
		return config{}, errors.New("GEMINI_API_KEY is required")
	}
	if cfg.minioEndpoint == "" {
		return config{}, errors.New("MINIO_ENDPOINT is required")
	}
	if cfg.supabaseURL == "" || cfg.supabaseServiceKey == "" {
		return config{}, errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}
	switch cfg.rateStore {
	case "memory":
	case "redis":
		if strings.TrimSpace(cfg.redisAddr) == "" {
			return config{}, errors.New("REDIS_ADDR is required when RATE_STORE=redis")
		}
	default:
		return config{}, errors.New("RATE_STORE must be memory or redis")
	}
	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.publicRateMax <= 0 || cfg.publicRateWindow <= 0 {
		return config{}, errors.New("RATE_PUBLIC_MAX and RATE_PUBLIC_WINDOW must be > 0")
	}
	if cfg.generationConcurrency <= 0 {
		return config{}, errors.New("GENERATION_CONCURRENCY must be > 0")
	}
	if cfg.providerRPS < 0 {
		return config{}, errors.New("PROVIDER_RPS must be >= 0")
	}
	return cfg, nil
}

func (c config) needsRedis() bool {
	return c.rateStore == "redis" || c.rateStatsEnabled
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
