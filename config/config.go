package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mcmonitor/core/log"
	"mcmonitor/models"
)

type MinecraftConfig struct {
	Host         string
	Port         int
	QueryTimeout time.Duration
	SRVLookup    bool
}

func (c MinecraftConfig) Target() models.ServerTarget {
	return models.ServerTarget{Host: c.Host, Port: c.Port}
}

type DiscordConfig struct {
	BotToken                  string
	GuildID                   string // optional, commands are registered globally when empty
	MaxConcurrentInteractions int
}

type CooldownConfig struct {
	Default       time.Duration
	SweepInterval time.Duration
	Overrides     map[string]time.Duration // per command name
}

// For returns the cooldown override for a command, if one is configured
func (c CooldownConfig) For(command string) (time.Duration, bool) {
	d, ok := c.Overrides[command]
	return d, ok
}

type BotConfig struct {
	Name       string // shown in embeds, presence and the status page
	Version    string
	ServerName string // display name of the monitored server
}

type AppConfig struct {
	Port                 string // Optional with default "5000"
	Environment          string
	SlackAlertWebhookURL string
	ServerLogsURL        string
	LogLevel             string
	LogFormat            string
	StatusCacheTTL       time.Duration // how long /api/status reuses a result before querying again

	Minecraft MinecraftConfig
	Discord   DiscordConfig
	Cooldowns CooldownConfig
	Bot       BotConfig
	Theme     models.Theme
}

type LoadOptions struct {
	EnvFile      string // defaults to .env; a missing file is not an error
	SettingsFile string // optional YAML settings file
}

// settingsFile is the optional YAML document with display and tuning settings
type settingsFile struct {
	Bot struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"bot"`
	Server struct {
		Name string `yaml:"name"`
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Colors struct {
		Primary string `yaml:"primary"`
		Success string `yaml:"success"`
		Error   string `yaml:"error"`
		Warning string `yaml:"warning"`
	} `yaml:"colors"`
	Cooldowns map[string]string `yaml:"cooldowns"`
}

func LoadConfig(opts LoadOptions) (*AppConfig, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Warn("⚠️ Could not load env file, continuing with system env vars", "path", envFile)
	}

	settings, err := loadSettings(opts.SettingsFile)
	if err != nil {
		return nil, err
	}

	botToken, err := getEnvRequired("DISCORD_BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	host := getEnvWithDefault("MC_SERVER_HOST", settings.Server.Host)
	if host == "" {
		return nil, fmt.Errorf("MC_SERVER_HOST is not set")
	}

	defaultPort := strconv.Itoa(models.DefaultMinecraftPort)
	if settings.Server.Port != 0 {
		defaultPort = strconv.Itoa(settings.Server.Port)
	}
	port, err := getEnvInt("MC_SERVER_PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("MC_SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	queryTimeout, err := getEnvDuration("MC_QUERY_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	if queryTimeout <= 0 {
		return nil, fmt.Errorf("MC_QUERY_TIMEOUT must be positive, got %s", queryTimeout)
	}
	srvLookup, err := getEnvBool("MC_SRV_LOOKUP", "true")
	if err != nil {
		return nil, err
	}

	defaultCooldown, err := getEnvDuration("COMMAND_COOLDOWN", "5s")
	if err != nil {
		return nil, err
	}
	sweepInterval, err := getEnvDuration("COOLDOWN_SWEEP_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	maxConcurrent, err := getEnvInt("MAX_CONCURRENT_INTERACTIONS", "8")
	if err != nil {
		return nil, err
	}
	if maxConcurrent <= 0 {
		return nil, fmt.Errorf("MAX_CONCURRENT_INTERACTIONS must be positive, got %d", maxConcurrent)
	}

	statusCacheTTL, err := getEnvDuration("STATUS_API_CACHE_TTL", "30s")
	if err != nil {
		return nil, err
	}
	if statusCacheTTL <= 0 {
		return nil, fmt.Errorf("STATUS_API_CACHE_TTL must be positive, got %s", statusCacheTTL)
	}

	overrides, err := parseCooldowns(settings.Cooldowns)
	if err != nil {
		return nil, err
	}
	theme, err := parseTheme(settings)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:                 getEnvWithDefault("PORT", "5000"),
		Environment:          getEnvWithDefault("ENVIRONMENT", "dev"),
		SlackAlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		ServerLogsURL:        os.Getenv("SERVER_LOGS_URL"),
		LogLevel:             getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:            os.Getenv("LOG_FORMAT"),
		StatusCacheTTL:       statusCacheTTL,

		Minecraft: MinecraftConfig{
			Host:         host,
			Port:         port,
			QueryTimeout: queryTimeout,
			SRVLookup:    srvLookup,
		},
		Discord: DiscordConfig{
			BotToken:                  botToken,
			GuildID:                   os.Getenv("DISCORD_GUILD_ID"),
			MaxConcurrentInteractions: maxConcurrent,
		},
		Cooldowns: CooldownConfig{
			Default:       defaultCooldown,
			SweepInterval: sweepInterval,
			Overrides:     overrides,
		},
		Bot: BotConfig{
			Name:       valueOr(settings.Bot.Name, "Minecraft"),
			Version:    valueOr(settings.Bot.Version, "dev"),
			ServerName: valueOr(settings.Server.Name, settings.Bot.Name),
		},
		Theme: theme,
	}

	if config.SlackAlertWebhookURL != "" {
		log.Info("✅ Slack error alerts configured")
	} else {
		log.Warn("⚠️ Slack error alerts not configured - alerts will only be logged")
	}
	if config.Discord.GuildID != "" {
		log.Info("✅ Commands will be registered for a single guild", "guild_id", config.Discord.GuildID)
	}

	return config, nil
}

func loadSettings(path string) (settingsFile, error) {
	var settings settingsFile
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, fmt.Errorf("settings file %s does not exist", path)
		}
		return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return settings, nil
}

func parseCooldowns(raw map[string]string) (map[string]time.Duration, error) {
	overrides := make(map[string]time.Duration, len(raw))
	for command, value := range raw {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid cooldown for command %s: %w", command, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("cooldown for command %s must not be negative", command)
		}
		overrides[strings.ToLower(command)] = d
	}
	return overrides, nil
}

func parseTheme(settings settingsFile) (models.Theme, error) {
	theme := models.DefaultTheme()
	colors := []struct {
		name  string
		value string
		dst   *int
	}{
		{"primary", settings.Colors.Primary, &theme.Primary},
		{"success", settings.Colors.Success, &theme.Success},
		{"error", settings.Colors.Error, &theme.Error},
		{"warning", settings.Colors.Warning, &theme.Warning},
	}

	for _, c := range colors {
		if c.value == "" {
			continue
		}
		parsed, err := parseColor(c.value)
		if err != nil {
			return theme, fmt.Errorf("invalid %s color %q: %w", c.name, c.value, err)
		}
		*c.dst = parsed
	}
	return theme, nil
}

// parseColor accepts 0xRRGGBB, #RRGGBB or a decimal integer
func parseColor(value string) (int, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		value = "0x" + value[1:]
	}
	parsed, err := strconv.ParseInt(value, 0, 32)
	if err != nil {
		return 0, err
	}
	if parsed < 0 || parsed > 0xFFFFFF {
		return 0, fmt.Errorf("color out of range")
	}
	return int(parsed), nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) (int, error) {
	value, err := strconv.Atoi(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key, defaultValue string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key, defaultValue string) (bool, error) {
	value, err := strconv.ParseBool(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return value, nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
