// Package middleware provides HTTP middleware for the thumbnail
// service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request instrumentation
//   - Configurable filtering for health check noise
package middleware
