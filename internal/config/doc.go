// Package config provides centralized configuration management for the
// marketplace dashboard.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml or configs/config.yaml
//	3. Default values (lowest priority)
//
// A .env file in the working directory is read before the environment is
// processed; it never overrides variables that are already set.
//
// # Environment Variables
//
// All environment variables follow the pattern MARKET_<SECTION>_<KEY>:
//
//	MARKET_SERVER_PORT=8501
//	MARKET_DATA_FILE=/srv/data/marketplace_dashboard_data.csv
//	MARKET_DATA_SAMPLE_SIZE=10000
//	MARKET_LOGGING_LEVEL=debug
//	MARKET_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Paths
//
// Relative paths (the data file, log file) resolve against the directory of
// the running executable, so the dashboard behaves the same regardless of
// where it is launched from.
package config
