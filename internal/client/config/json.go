package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/aliaskeeper/internal/flagx"
	"github.com/dmitrijs2005/aliaskeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value so a partial file only
// overrides what it names.
type JsonConfig struct {
	DatabasePath      *string         `json:"database_path"`
	GatewayURL        *string         `json:"gateway_url"`
	Domain            *string         `json:"domain"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	RequestsPerSecond *float64        `json:"requests_per_second"`
	RequestBurst      *int            `json:"request_burst"`
	LogLevel          *string         `json:"log_level"`
	VaultPassphrase   *string         `json:"vault_passphrase"`
	Platform          *string         `json:"platform"`
	Backup            *BackupConfig   `json:"backup"`
}

// parseJson overlays cfg with the JSON file given by -c or -config. Without
// either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.GatewayURL, jc.GatewayURL)
	setIf(&cfg.Domain, jc.Domain)
	setIf(&cfg.RequestsPerSecond, jc.RequestsPerSecond)
	setIf(&cfg.RequestBurst, jc.RequestBurst)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.VaultPassphrase, jc.VaultPassphrase)
	setIf(&cfg.Platform, jc.Platform)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Backup != nil {
		mergeBackup(&cfg.Backup, *jc.Backup)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func mergeBackup(dst *BackupConfig, src BackupConfig) {
	for _, f := range []struct{ dst, src *string }{
		{&dst.Bucket, &src.Bucket},
		{&dst.Region, &src.Region},
		{&dst.Endpoint, &src.Endpoint},
		{&dst.AccessKeyID, &src.AccessKeyID},
		{&dst.SecretAccessKey, &src.SecretAccessKey},
		{&dst.Prefix, &src.Prefix},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}
