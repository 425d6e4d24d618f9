package config

import (
	"encoding/json"
	"os"

	"github.com/rlocatelli9/daily-diet-api/internal/flagx"
	"github.com/rlocatelli9/daily-diet-api/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Interval fields
// use timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP           string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC           string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                string         `json:"database_dsn"`
	SecretKey                  string         `json:"secret_key"`
	SessionValidityDuration    timex.Duration `json:"session_validity_duration"`
	SessionCleanupInterval     timex.Duration `json:"session_cleanup_interval"`
	RequestTimeout             timex.Duration `json:"request_timeout"`
	CookieDomain               string         `json:"cookie_domain"`
	CookieSecure               bool           `json:"cookie_secure"`
	LogLevel                   string         `json:"log_level"`
	LogFormat                  string         `json:"log_format"`
	SignInRateLimit            string         `json:"signin_rate_limit"`
	MetricsEnabled             bool           `json:"metrics_enabled"`
	S3AccessKey                string         `json:"s3_access_key"`
	S3SecretKey                string         `json:"s3_secret_key"`
	S3Bucket                   string         `json:"s3_bucket"`
	S3Region                   string         `json:"s3_region"`
	S3BaseEndpoint             string         `json:"s3_base_endpoint"`
	ExportLinkValidityDuration timex.Duration `json:"export_link_validity_duration"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:           c.EndpointAddrHTTP,
		EndpointAddrGRPC:           c.EndpointAddrGRPC,
		DatabaseDSN:                c.DatabaseDSN,
		SecretKey:                  c.SecretKey,
		SessionValidityDuration:    timex.Duration{Duration: c.SessionValidityDuration},
		SessionCleanupInterval:     timex.Duration{Duration: c.SessionCleanupInterval},
		RequestTimeout:             timex.Duration{Duration: c.RequestTimeout},
		CookieDomain:               c.CookieDomain,
		CookieSecure:               c.CookieSecure,
		LogLevel:                   c.LogLevel,
		LogFormat:                  c.LogFormat,
		SignInRateLimit:            c.SignInRateLimit,
		MetricsEnabled:             c.MetricsEnabled,
		S3AccessKey:                c.S3AccessKey,
		S3SecretKey:                c.S3SecretKey,
		S3Bucket:                   c.S3Bucket,
		S3Region:                   c.S3Region,
		S3BaseEndpoint:             c.S3BaseEndpoint,
		ExportLinkValidityDuration: timex.Duration{Duration: c.ExportLinkValidityDuration},
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.EndpointAddrHTTP = j.EndpointAddrHTTP
	c.EndpointAddrGRPC = j.EndpointAddrGRPC
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.SessionValidityDuration = j.SessionValidityDuration.Duration
	c.SessionCleanupInterval = j.SessionCleanupInterval.Duration
	c.RequestTimeout = j.RequestTimeout.Duration
	c.CookieDomain = j.CookieDomain
	c.CookieSecure = j.CookieSecure
	c.LogLevel = j.LogLevel
	c.LogFormat = j.LogFormat
	c.SignInRateLimit = j.SignInRateLimit
	c.MetricsEnabled = j.MetricsEnabled
	c.S3AccessKey = j.S3AccessKey
	c.S3SecretKey = j.S3SecretKey
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.ExportLinkValidityDuration = j.ExportLinkValidityDuration.Duration
}

// parseJson overlays values from the file named by -c/-config. Keys absent
// from the file keep their current value. Without the flag nothing is loaded.
func parseJson(config *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	c.apply(config)
	return nil
}
