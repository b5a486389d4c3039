// Package config loads runtime configuration for the aliaskeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. A .env file in the working directory, loaded into the environment.
//  4. ALIASKEEPER_* environment variables.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   database file
//	-g string   gateway base URL
//	-l string   log level
//
// # JSON schema
//
// Durations may be strings like "15s" or integer nanoseconds:
//
//	{
//	  "database_path": "aliaskeeper.db",
//	  "gateway_url": "https://quack.duckduckgo.com/api",
//	  "domain": "duck.com",
//	  "request_timeout": "15s",
//	  "requests_per_second": 1,
//	  "request_burst": 3,
//	  "log_level": "info",
//	  "platform": "chromium",
//	  "backup": {"bucket": "my-bucket", "region": "eu-west-1", "prefix": "aliaskeeper"}
//	}
//
// # Environment
//
// ALIASKEEPER_DB_PATH, ALIASKEEPER_GATEWAY_URL, ALIASKEEPER_DOMAIN,
// ALIASKEEPER_REQUEST_TIMEOUT, ALIASKEEPER_REQUESTS_PER_SECOND,
// ALIASKEEPER_REQUEST_BURST, ALIASKEEPER_LOG_LEVEL,
// ALIASKEEPER_VAULT_PASSPHRASE, ALIASKEEPER_PLATFORM and
// ALIASKEEPER_BACKUP_{BUCKET,REGION,ENDPOINT,ACCESS_KEY_ID,SECRET_ACCESS_KEY,PREFIX}.
package config
