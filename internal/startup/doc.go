// Package startup loads and validates the service configuration from
// the environment (with optional .env support) and exposes build
// information injected at compile time.
package startup
