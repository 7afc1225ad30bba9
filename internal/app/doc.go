// Package app wires configuration, logging, telemetry, the data store,
// services and HTTP handlers into one runnable dashboard server.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, environment)
//	2. Initialize logging and OpenTelemetry
//	3. Create the data loader and memoising store
//	4. Create the dashboard and health services
//	5. Build the chi router and middleware chain
//	6. Start the HTTP server and warm the data cache
//
// # Usage
//
//	application, err := app.NewApplication(webFS)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests and
// flushes telemetry. Initialization errors are returned, never fatal, so
// main decides the exit code.
package app
