package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port           string
	Environment    string
	ReadTimeout    int
	WriteTimeout   int
	BodyLimitMB    int
	DBPath         string
	MigrationsPath string
	LayoutURL      string
	CORSOrigins    []string
	Import         ImportConfig
}

// ImportConfig содержит параметры восстановления клавиш из чертежа.
// Допуски зависят от масштаба чертежа, поэтому вынесены в окружение.
type ImportConfig struct {
	GroupSize  int
	MinKeySize float64
	MaxKeySize float64
	Scale      float64
	Margin     float64
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		BodyLimitMB:    getEnvAsInt("BODY_LIMIT_MB", 16),
		DBPath:         getEnv("LAYOUT_DB_PATH", "data/db/layouts.db"),
		MigrationsPath: getEnv("LAYOUT_MIGRATIONS", "migrations/001_init_layouts.sql"),
		LayoutURL:      getEnv("LAYOUT_URL", "http://localhost:3001"),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
		Import: ImportConfig{
			GroupSize:  getEnvAsInt("IMPORT_GROUP_SIZE", 4),
			MinKeySize: getEnvAsFloat("IMPORT_MIN_KEY_SIZE", 10),
			MaxKeySize: getEnvAsFloat("IMPORT_MAX_KEY_SIZE", 40),
			Scale:      getEnvAsFloat("IMPORT_SCALE", 4),
			Margin:     getEnvAsFloat("IMPORT_MARGIN", 50),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
