package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIHost     string
	StoragePath string
	HTTPTimeout time.Duration
	PageSize    int

	Address   string
	Port      int
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret string
	AdminUser string
	AdminPass string
	OTPTTL    time.Duration
	DemoOTP   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getenvInt("PORT", 7000)
	if err != nil {
		return nil, err
	}

	pageSize, err := getenvInt("PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid PAGE_SIZE value: %d", pageSize)
	}

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	otpTTL, err := getenvDuration("OTP_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" {
		storagePath = defaultStoragePath()
	}

	return &Config{
		APIHost:     getenv("API_HOST", fmt.Sprintf("http://localhost:%d", port)),
		StoragePath: storagePath,
		HTTPTimeout: httpTimeout,
		PageSize:    pageSize,
		Address:     getenv("ADDRESS", "0.0.0.0"),
		Port:        port,
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getenv("MONGO_DB", "fxmobile"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   getenv("JWT_SECRET", "default_jwt_secret"),
		AdminUser:   getenv("ADMIN_USER", "admin"),
		AdminPass:   getenv("ADMIN_PASS", "admin"),
		OTPTTL:      otpTTL,
		DemoOTP:     os.Getenv("DEMO_OTP"),
	}, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %q", key, val)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %q", key, val)
	}
	return d, nil
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".fxmobile", "storage.json")
	}
	return filepath.Join(home, ".fxmobile", "storage.json")
}
