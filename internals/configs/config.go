package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// AppConfig is a typed snapshot of the environment, taken once at boot.
type AppConfig struct {
	Env     string
	Port    string
	AppName string

	AppBaseURL string // frontend, used for payment redirects + email links
	APIBaseURL string // public URL of this service, used for gateway callbacks
	Timezone   string

	ClerkJWTKey        string
	ClerkSecretKey     string
	ClerkWebhookSecret string
	AdminEmails        []string

	CronSecret      string
	EnableScheduler bool

	PaymentProvider  string
	SSLCzStoreID     string
	SSLCzStorePasswd string
	SSLCzIsLive      bool
	MidtransKey      string
	MidtransUseProd  bool
	Currency         string

	MailDriver   string
	MailFrom     string
	MailFromName string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SendgridKey  string

	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroup    string
	MongoURI      string
	MongoDB       string
	RollbarToken  string
}

var Conf AppConfig

// =======================
// ENV LOADER
// =======================
func LoadEnv() AppConfig {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system environment")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system environment")
	}

	Conf = Load()

	if Conf.ClerkJWTKey == "" {
		log.Println("❌ CLERK_JWT_KEY is not set, authenticated routes will reject every request")
	}
	if Conf.CronSecret == "" {
		log.Println("❌ CRON_SECRET is not set, cron endpoints are disabled")
	}
	if Conf.ClerkWebhookSecret == "" {
		log.Println("❌ CLERK_WEBHOOK_SECRET is not set, clerk webhooks will be rejected")
	}
	return Conf
}

// Load reads the config from the current process environment without touching .env.
func Load() AppConfig {
	return AppConfig{
		Env:     GetEnv("APP_ENV", "development"),
		Port:    GetEnv("PORT", "3000"),
		AppName: GetEnv("APP_NAME", "IlmHub"),

		AppBaseURL: strings.TrimRight(GetEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		APIBaseURL: strings.TrimRight(GetEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		Timezone:   GetEnv("TZ_NAME", "Asia/Dhaka"),

		ClerkJWTKey:        GetEnv("CLERK_JWT_KEY"),
		ClerkSecretKey:     GetEnv("CLERK_SECRET_KEY"),
		ClerkWebhookSecret: GetEnv("CLERK_WEBHOOK_SECRET"),
		AdminEmails:        SplitCSV(strings.ToLower(GetEnv("ADMIN_EMAILS"))),

		CronSecret:      GetEnv("CRON_SECRET"),
		EnableScheduler: GetBool("ENABLE_SCHEDULER", false),

		PaymentProvider:  strings.ToLower(GetEnv("PAYMENT_PROVIDER", "sslcommerz")),
		SSLCzStoreID:     GetEnv("SSLCZ_STORE_ID"),
		SSLCzStorePasswd: GetEnv("SSLCZ_STORE_PASSWD"),
		SSLCzIsLive:      GetBool("SSLCZ_IS_LIVE", false),
		MidtransKey:      GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:  GetBool("MIDTRANS_USE_PROD", false),
		Currency:         GetEnv("CURRENCY", "BDT"),

		MailDriver:   strings.ToLower(GetEnv("MAIL_DRIVER", "console")),
		MailFrom:     GetEnv("MAIL_FROM", "no-reply@ilmhub.local"),
		MailFromName: GetEnv("MAIL_FROM_NAME", "IlmHub"),
		SMTPHost:     GetEnv("SMTP_HOST"),
		SMTPPort:     GetInt("SMTP_PORT", 587),
		SMTPUser:     GetEnv("SMTP_USER"),
		SMTPPass:     GetEnv("SMTP_PASS"),
		SendgridKey:  GetEnv("SENDGRID_API_KEY"),

		RedisAddr:     GetEnv("REDIS_ADDR"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),
		KafkaBrokers:  SplitCSV(GetEnv("KAFKA_BROKERS")),
		KafkaTopic:    GetEnv("KAFKA_ORDER_TOPIC", "order-events"),
		KafkaGroup:    GetEnv("KAFKA_GROUP_ID", "ilmhub-notifier"),
		MongoURI:      GetEnv("MONGO_URI"),
		MongoDB:       GetEnv("MONGO_DB", "ilmhub"),
		RollbarToken:  GetEnv("ROLLBAR_TOKEN"),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetBool(key string, def bool) bool {
	if v := GetEnv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func GetInt(key string, def int) int {
	if v := GetEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c AppConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

// Location resolves TZ_NAME, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// =======================
// DATABASE CONNECTOR
// =======================
func InitSeederDB() *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect database (seeder): %v", err)
	}
	log.Println("✅ Database (seeder) connected.")
	return db
}

// PostgresDSN prefers DATABASE_URL, otherwise builds one from DB_* parts.
func PostgresDSN() string {
	if url := GetEnv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=ilmhub&options=-c statement_timeout=3000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME", "ilmhub"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && err != gorm.ErrRecordNotFound && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
