package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address       string
	Port          int
	BaseURL       string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminUser     string
	AdminPass     string
	DerivWSURL    string
	DerivAppID    string
	EngineTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.New("invalid PORT value")
	}

	address := os.Getenv("ADDRESS")
	if address == "" {
		address = "0.0.0.0"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + portStr
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "profitpilot"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-me"
	}

	ttlStr := os.Getenv("SESSION_TTL_HOURS")
	if ttlStr == "" {
		ttlStr = "12"
	}
	ttlHours, err := strconv.Atoi(ttlStr)
	if err != nil || ttlHours <= 0 {
		return nil, errors.New("invalid SESSION_TTL_HOURS value")
	}

	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}

	adminPass := os.Getenv("ADMIN_PASS")
	if adminPass == "" {
		adminPass = "admin123"
	}

	derivWSURL := os.Getenv("DERIV_WS_URL")
	if derivWSURL == "" {
		derivWSURL = "wss://ws.derivws.com/websockets/v3"
	}

	derivAppID := os.Getenv("DERIV_APP_ID")
	if derivAppID == "" {
		derivAppID = "1089"
	}

	engineTimeoutStr := os.Getenv("ENGINE_TIMEOUT_SECONDS")
	if engineTimeoutStr == "" {
		engineTimeoutStr = "10"
	}
	engineTimeout, err := strconv.Atoi(engineTimeoutStr)
	if err != nil || engineTimeout <= 0 {
		return nil, errors.New("invalid ENGINE_TIMEOUT_SECONDS value")
	}

	return &Config{
		Address:       address,
		Port:          port,
		BaseURL:       baseURL,
		MongoURI:      mongoURI,
		MongoDB:       mongoDB,
		JWTSecret:     jwtSecret,
		SessionTTL:    time.Duration(ttlHours) * time.Hour,
		AdminUser:     adminUser,
		AdminPass:     adminPass,
		DerivWSURL:    derivWSURL,
		DerivAppID:    derivAppID,
		EngineTimeout: time.Duration(engineTimeout) * time.Second,
	}, nil
}
