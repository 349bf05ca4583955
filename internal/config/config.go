package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто = in-memory кэш
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Elasticsearch struct {
		URL            string `yaml:"url"` // пусто = поиск только по БД
		Username       string `yaml:"username"`
		Password       string `yaml:"password"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"elasticsearch"`

	Cache struct {
		CatalogTTLSeconds int `yaml:"catalog_ttl_seconds"` // страницы каталога
		CityTTLSeconds    int `yaml:"city_ttl_seconds"`    // выборки по городу
		GMStatsTTLSeconds int `yaml:"gm_stats_ttl_seconds"`
		CleanupMinutes    int `yaml:"cleanup_minutes"`
	} `yaml:"cache"`

	RateLimit struct {
		Limit    int `yaml:"limit"`
		WindowMs int `yaml:"window_ms"`
	} `yaml:"rate_limit"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")
	jwtSecret := os.Getenv("JWT_SECRET")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.TTL = 60

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Elasticsearch.URL = os.Getenv("ELASTICSEARCH_URL")
	cfg.Elasticsearch.Username = os.Getenv("ELASTICSEARCH_USERNAME")
	cfg.Elasticsearch.Password = os.Getenv("ELASTICSEARCH_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyDefaults выставляет политику TTL и лимитов, если она не задана явно:
// страницы каталога 5 минут, выборки по городу 10 минут, статистика мастера
// 30 минут, троттлинг 100 запросов в минуту.
func applyDefaults(cfg *Config) {
	if cfg.Cache.CatalogTTLSeconds == 0 {
		cfg.Cache.CatalogTTLSeconds = 300
	}
	if cfg.Cache.CityTTLSeconds == 0 {
		cfg.Cache.CityTTLSeconds = 600
	}
	if cfg.Cache.GMStatsTTLSeconds == 0 {
		cfg.Cache.GMStatsTTLSeconds = 1800
	}
	if cfg.Cache.CleanupMinutes == 0 {
		cfg.Cache.CleanupMinutes = 5
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 100
	}
	if cfg.RateLimit.WindowMs == 0 {
		cfg.RateLimit.WindowMs = 60000
	}
	if cfg.Elasticsearch.TimeoutSeconds == 0 {
		cfg.Elasticsearch.TimeoutSeconds = 3
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
