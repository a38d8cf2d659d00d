// Package gateway implements the assist endpoint: it validates incoming
// requests, selects the system prompt for the requested assistance
// category, forwards the conversation to the upstream completion API, and
// normalizes every outcome into a small JSON envelope the web front-end
// understands.
package gateway
