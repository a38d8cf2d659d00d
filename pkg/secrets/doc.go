// Package secrets supplies the upstream API credential to the gateway.
//
// The credential is resolved on every upstream call rather than at startup,
// so a rotated secret takes effect without a restart. Two providers are
// available: a static provider for values sourced from configuration or the
// environment, and a file provider that watches a secret file and refreshes
// its cache when the file changes.
package secrets
