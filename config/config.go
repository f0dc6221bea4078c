//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package config loads the server configuration from a YAML file, a .env
// file and WHOOP_ prefixed environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/janaksunil/whoop-mcp/analysis"
	itelemetry "github.com/janaksunil/whoop-mcp/internal/telemetry"
	"github.com/janaksunil/whoop-mcp/log"
	whooptool "github.com/janaksunil/whoop-mcp/tool/whoop"
	"github.com/janaksunil/whoop-mcp/whoop"
)

// Transports of the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	envPrefix  = "WHOOP"
	configName = ".whoop-mcp"
	secretMask = "********"
)

// envAliases are the short variable names of the backend settings, so
// WHOOP_USERNAME works as well as WHOOP_WHOOP_USERNAME.
var envAliases = map[string]string{
	"whoop.base_url":     "WHOOP_BASE_URL",
	"whoop.auth_url":     "WHOOP_AUTH_URL",
	"whoop.username":     "WHOOP_USERNAME",
	"whoop.password":     "WHOOP_PASSWORD",
	"whoop.access_token": "WHOOP_ACCESS_TOKEN",
}

// Config is the complete server configuration.
type Config struct {
	Whoop     WhoopConfig      `mapstructure:"whoop"`
	Server    ServerConfig     `mapstructure:"server"`
	Admin     AdminConfig      `mapstructure:"admin"`
	Log       LogConfig        `mapstructure:"log"`
	Telemetry TelemetryConfig  `mapstructure:"telemetry"`
	Pacing    whooptool.Pacing `mapstructure:"pacing"`
	Policy    analysis.Policy  `mapstructure:"policy"`
}

// WhoopConfig configures the backend client. Either AccessToken or
// Username and Password are needed to call the backend.
type WhoopConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AuthURL     string        `mapstructure:"auth_url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	Address   string `mapstructure:"address"`
	Path      string `mapstructure:"path"`
}

// AdminConfig configures the admin HTTP server. An empty address disables
// it. Browsers may only call it from AllowedOrigins.
type AdminConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TelemetryConfig configures OTLP trace and metric export.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Protocol string `mapstructure:"protocol"`
}

// Load reads configuration. cfgFile overrides the search for
// .whoop-mcp.yaml in the working directory and $HOME/.config/whoop-mcp.
// envFile names a dotenv file to load first; a missing file is ignored.
func Load(cfgFile, envFile string) (*Config, *viper.Viper, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("config: could not load %s: %v", envFile, err)
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/whoop-mcp")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		_ = v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, v, nil
}

// setDefaults registers every key, which also lets AutomaticEnv see keys
// that appear in no file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("whoop.base_url", whoop.DefaultBaseURL)
	v.SetDefault("whoop.auth_url", whoop.DefaultAuthURL)
	v.SetDefault("whoop.username", "")
	v.SetDefault("whoop.password", "")
	v.SetDefault("whoop.access_token", "")
	v.SetDefault("whoop.timeout", whoop.DefaultTimeout)
	v.SetDefault("whoop.user_agent", whoop.DefaultUserAgent)

	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.path", "/mcp")

	v.SetDefault("admin.address", "")
	v.SetDefault("admin.allowed_origins", []string{})

	v.SetDefault("log.level", log.LevelInfo)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.protocol", itelemetry.ProtocolGRPC)

	pacing := whooptool.DefaultPacing()
	v.SetDefault("pacing.weekly", pacing.Weekly)
	v.SetDefault("pacing.monthly", pacing.Monthly)
	v.SetDefault("pacing.weekday", pacing.Weekday)
	v.SetDefault("pacing.trends", pacing.Trends)

	p := analysis.DefaultPolicy()
	v.SetDefault("policy.recovery_threshold", p.RecoveryThreshold)
	v.SetDefault("policy.green_zone", p.GreenZone)
	v.SetDefault("policy.yellow_zone", p.YellowZone)
	v.SetDefault("policy.trend_band", p.TrendBand)
	v.SetDefault("policy.overreaching_ratio", p.OverreachingRatio)
	v.SetDefault("policy.undertrained_ratio", p.UndertrainedRatio)
	v.SetDefault("policy.strain_shift_pct", p.StrainShiftPct)
	v.SetDefault("policy.hrv_shift_pct", p.HRVShiftPct)
	v.SetDefault("policy.rhr_rise_pct", p.RHRRisePct)
	v.SetDefault("policy.sleep_target_hours", p.SleepTargetHours)
	v.SetDefault("policy.consistent_days", p.ConsistentDays)
	v.SetDefault("policy.weekday_spread", p.WeekdaySpread)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("invalid server.transport: %q (must be stdio or http)", c.Server.Transport))
	}

	switch c.Log.Level {
	case log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError, log.LevelFatal:
	default:
		errs = append(errs, fmt.Errorf("invalid log.level: %q (must be debug, info, warn, error or fatal)", c.Log.Level))
	}

	switch c.Telemetry.Protocol {
	case itelemetry.ProtocolGRPC, itelemetry.ProtocolHTTP:
	default:
		errs = append(errs, fmt.Errorf("invalid telemetry.protocol: %q (must be grpc or http)", c.Telemetry.Protocol))
	}

	if c.Whoop.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("whoop.timeout must be positive, got %s", c.Whoop.Timeout))
	}
	if c.Pacing.Weekly < 0 || c.Pacing.Monthly < 0 || c.Pacing.Weekday < 0 || c.Pacing.Trends < 0 {
		errs = append(errs, errors.New("pacing intervals must not be negative"))
	}

	p := c.Policy
	if p.YellowZone >= p.GreenZone {
		errs = append(errs, fmt.Errorf("policy.yellow_zone (%g) must be below policy.green_zone (%g)", p.YellowZone, p.GreenZone))
	}
	if p.UndertrainedRatio >= p.OverreachingRatio {
		errs = append(errs, fmt.Errorf("policy.undertrained_ratio (%g) must be below policy.overreaching_ratio (%g)",
			p.UndertrainedRatio, p.OverreachingRatio))
	}
	if p.TrendBand < 0 {
		errs = append(errs, fmt.Errorf("policy.trend_band must not be negative, got %g", p.TrendBand))
	}

	return errors.Join(errs...)
}

// HasCredentials reports whether the backend can be called.
func (c WhoopConfig) HasCredentials() bool {
	return c.AccessToken != "" || (c.Username != "" && c.Password != "")
}

// Masked returns a copy safe to print.
func (c Config) Masked() Config {
	c.Whoop.Password = mask(c.Whoop.Password)
	c.Whoop.AccessToken = mask(c.Whoop.AccessToken)
	return c
}

// Rows lists the effective settings as key and value pairs, secrets
// masked.
func (c Config) Rows() [][]string {
	m := c.Masked()
	return [][]string{
		{"whoop.base_url", m.Whoop.BaseURL},
		{"whoop.auth_url", m.Whoop.AuthURL},
		{"whoop.username", m.Whoop.Username},
		{"whoop.password", m.Whoop.Password},
		{"whoop.access_token", m.Whoop.AccessToken},
		{"whoop.timeout", m.Whoop.Timeout.String()},
		{"whoop.user_agent", m.Whoop.UserAgent},
		{"server.transport", m.Server.Transport},
		{"server.address", m.Server.Address},
		{"server.path", m.Server.Path},
		{"admin.address", m.Admin.Address},
		{"admin.allowed_origins", strings.Join(m.Admin.AllowedOrigins, ",")},
		{"log.level", m.Log.Level},
		{"telemetry.enabled", fmt.Sprintf("%t", m.Telemetry.Enabled)},
		{"telemetry.endpoint", m.Telemetry.Endpoint},
		{"telemetry.protocol", m.Telemetry.Protocol},
		{"pacing.weekly", m.Pacing.Weekly.String()},
		{"pacing.monthly", m.Pacing.Monthly.String()},
		{"pacing.weekday", m.Pacing.Weekday.String()},
		{"pacing.trends", m.Pacing.Trends.String()},
		{"policy.recovery_threshold", fmt.Sprintf("%g", m.Policy.RecoveryThreshold)},
		{"policy.green_zone", fmt.Sprintf("%g", m.Policy.GreenZone)},
		{"policy.yellow_zone", fmt.Sprintf("%g", m.Policy.YellowZone)},
		{"policy.trend_band", fmt.Sprintf("%g", m.Policy.TrendBand)},
		{"policy.overreaching_ratio", fmt.Sprintf("%g", m.Policy.OverreachingRatio)},
		{"policy.undertrained_ratio", fmt.Sprintf("%g", m.Policy.UndertrainedRatio)},
		{"policy.strain_shift_pct", fmt.Sprintf("%g", m.Policy.StrainShiftPct)},
		{"policy.hrv_shift_pct", fmt.Sprintf("%g", m.Policy.HRVShiftPct)},
		{"policy.rhr_rise_pct", fmt.Sprintf("%g", m.Policy.RHRRisePct)},
		{"policy.sleep_target_hours", fmt.Sprintf("%g", m.Policy.SleepTargetHours)},
		{"policy.consistent_days", fmt.Sprintf("%d", m.Policy.ConsistentDays)},
		{"policy.weekday_spread", fmt.Sprintf("%g", m.Policy.WeekdaySpread)},
	}
}

// ClientOptions maps the backend settings to client options.
func (c WhoopConfig) ClientOptions() []whoop.Option {
	opts := []whoop.Option{
		whoop.WithBaseURL(c.BaseURL),
		whoop.WithAuthURL(c.AuthURL),
		whoop.WithUserAgent(c.UserAgent),
		whoop.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	}
	if c.AccessToken != "" {
		opts = append(opts, whoop.WithAccessToken(c.AccessToken))
	}
	if c.Username != "" || c.Password != "" {
		opts = append(opts, whoop.WithCredentials(c.Username, c.Password))
	}
	return opts
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return secretMask
}
