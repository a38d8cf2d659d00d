// Package upstream is the gateway's client for the hosted chat-completion
// API. It sends exactly one system+user conversation per call, resolves the
// bearer credential at call time, and converts transport and provider
// failures into typed errors carrying the upstream HTTP status.
package upstream
