package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPageContent 是新建案例时写入的初始内容。
const DefaultPageContent = "<p>请在此处开始编写您的案例...</p>"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	SessionSecret      string
	GinMode            string
	UploadDir          string
	UploadURLPath      string
	CORSOrigins        []string
	DefaultPageContent string
	SeedFile           string
	EditorUserName     string
	EditorPassword     string
	LogLevel           string
	WatchSeed          bool
	LoginRatePerMinute int
	LoginBurst         int
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := envOrDefault("PORT", "5000")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	// DEFAULT_PAGE_CONTENT 允许显式设置为空字符串，因此只在未设置时回退。
	defaultContent, ok := os.LookupEnv("DEFAULT_PAGE_CONTENT")
	if !ok {
		defaultContent = DefaultPageContent
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       envOrDefault("DATABASE_PATH", "opencode-docs.db"),
		SessionSecret:      envOrDefault("SESSION_SECRET", "opencode-docs-dev-secret"),
		GinMode:            envOrDefault("GIN_MODE", "release"),
		UploadDir:          envOrDefault("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:      envOrDefault("UPLOAD_URL_PATH", "/static/uploads"),
		CORSOrigins:        splitList(envOrDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		DefaultPageContent: defaultContent,
		SeedFile:           strings.TrimSpace(os.Getenv("SEED_FILE")),
		EditorUserName:     strings.TrimSpace(os.Getenv("EDITOR_USER_NAME")),
		EditorPassword:     strings.TrimSpace(os.Getenv("EDITOR_PASSWORD")),
		LogLevel:           strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		WatchSeed:          envBool("WATCH_SEED", false),
		LoginRatePerMinute: envInt("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:         envInt("LOGIN_BURST", 5),
	}
}

// AuthEnabled 在配置了编辑者账号时返回 true，此时写接口需要登录。
func (c AppConfig) AuthEnabled() bool {
	return c.EditorUserName != "" && c.EditorPassword != ""
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
