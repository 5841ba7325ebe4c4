package configs

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/constants"
	"impala_backend/internals/helpers/dbtime"
)

// AppConfig mengumpulkan semua nilai ENV yang dipakai form engine.
type AppConfig struct {
	Port string

	BackendAPIURL   string
	BackendAPIToken string
	GeoAPIURL       string
	PublicOrigin    string

	JWTSecret  string
	AdminRoles []string

	DB DBConfig

	FormLoadTimeout   time.Duration
	HTTPClientTimeout time.Duration
	Timezone          string

	AutoFillCategoryMode string

	DraftTTL         time.Duration
	DraftCleanupCron string

	LogLevel  string
	LogFormat string
	LogFile   string

	CORSOrigins []string
}

// DBConfig: koneksi PostgreSQL untuk tabel form_drafts.
// Host kosong berarti draft hanya disimpan di memori.
type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

func (d DBConfig) Enabled() bool { return strings.TrimSpace(d.Host) != "" }

// DSN dalam bentuk URL, dengan statement_timeout 3 detik.
func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	q.Set("application_name", "impala_form_engine")
	q.Set("options", "-c statement_timeout=3000")
	u.RawQuery = q.Encode()
	return u.String()
}

var Config AppConfig

// =======================
// ENV LOADER
// =======================
func LoadEnv() AppConfig {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			logrus.Warn("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			logrus.Info("✅ .env file berhasil dimuat!")
		}
	} else {
		logrus.Info("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	Config = AppConfig{
		Port:                 GetEnv("PORT", "3000"),
		BackendAPIURL:        strings.TrimRight(GetEnv("BACKEND_API_URL", "http://localhost:8000/api"), "/"),
		BackendAPIToken:      GetEnv("BACKEND_API_TOKEN"),
		GeoAPIURL:            strings.TrimRight(GetEnv("GEO_API_URL", "https://www.emsifa.com/api-wilayah-indonesia/api"), "/"),
		PublicOrigin:         strings.TrimRight(GetEnv("PUBLIC_ORIGIN", "http://localhost:5173"), "/"),
		JWTSecret:            GetEnv("JWT_SECRET"),
		AdminRoles:           splitCSV(GetEnv("ADMIN_ROLES", strings.Join(constants.DefaultAdminRoles, ","))),
		FormLoadTimeout:      GetDuration("FORM_LOAD_TIMEOUT", 10*time.Second),
		HTTPClientTimeout:    GetDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second),
		Timezone:             GetEnv("APP_TIMEZONE", "Asia/Jakarta"),
		AutoFillCategoryMode: strings.ToLower(GetEnv("AUTOFILL_CATEGORY_MODE", "email")),
		DraftTTL:             time.Duration(GetInt("DRAFT_TTL_HOURS", 72)) * time.Hour,
		DraftCleanupCron:     GetEnv("DRAFT_CLEANUP_CRON", "@every 1h"),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogFormat:            GetEnv("LOG_FORMAT", "text"),
		LogFile:              GetEnv("LOG_FILE"),
		CORSOrigins:          splitCSV(GetEnv("CORS_ORIGINS", "http://localhost:5173")),
		DB: DBConfig{
			User:     GetEnv("DB_USER"),
			Password: GetEnv("DB_PASSWORD"),
			Host:     GetEnv("DB_HOST"),
			Port:     GetEnv("DB_PORT", "5432"),
			Name:     GetEnv("DB_NAME"),
			SSLMode:  GetEnv("DB_SSLMODE", "require"),
		},
	}

	if Config.JWTSecret == "" {
		logrus.Error("❌ JWT_SECRET belum diset! Route form builder tidak bisa diakses.")
	} else {
		logrus.Info("✅ JWT_SECRET berhasil dimuat.")
	}
	if Config.BackendAPIToken == "" {
		logrus.Warn("⚠️ BACKEND_API_TOKEN kosong, request ke backend dikirim tanpa Authorization")
	}

	return Config
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// GetDuration menerima format time.ParseDuration ("10s") atau angka detik ("10").
func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Location mengembalikan zona waktu aplikasi, fallback ke WIB (UTC+7).
func (c AppConfig) Location() *time.Location {
	return dbtime.LoadLocation(c.Timezone)
}
