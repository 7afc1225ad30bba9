package config

// Application constants
const (
	AppName     = "Marketplace Pulse"
	AppVersion  = "1.2.0"
	ServiceName = "marketpulse-dashboard"

	// DefaultPort matches the port analysts already bookmark for the dashboard.
	DefaultPort = 8501

	// DefaultDataFileName is looked up next to the executable.
	DefaultDataFileName = "marketplace_dashboard_data.csv"

	// Scatter plot sampling.
	DefaultSampleSize = 10000
	DefaultSampleSeed = 42

	DefaultLogsDir    = "logs"
	DefaultExportsDir = "exports"
)
