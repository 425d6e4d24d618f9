package config

import (
	"encoding/json"
	"os"

	"github.com/rlocatelli9/daily-diet-api/internal/flagx"
	"github.com/rlocatelli9/daily-diet-api/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Keys absent from the file keep
// their current values.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ExportDir      string         `json:"export_dir"`
}

func parseJson(cfg *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	jc := JsonConfig{
		ServerURL:      cfg.ServerURL,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
		ExportDir:      cfg.ExportDir,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	cfg.ServerURL = jc.ServerURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.ExportDir = jc.ExportDir
	return nil
}
