// Healthgate is an AI request gateway for a healthcare education
// front-end.
//
// It accepts assistance requests from the web client, validates and
// sanitizes the input, applies per-client rate limits, selects the system
// prompt for the requested assistance category, and forwards the
// conversation to a hosted OpenAI-compatible completion API.
//
// Usage:
//
//	# Start the gateway with default configuration
//	healthgate run
//
//	# Start with a custom configuration file
//	healthgate run --config /etc/healthgate/config.yaml
//
//	# Validate a configuration file without starting
//	healthgate validate --config /etc/healthgate/config.yaml
//
//	# Show version information
//	healthgate version
package main

func main() {
	Execute()
}
