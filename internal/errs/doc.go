// Package errs defines the coded errors of the thumbnail service and
// the not-found sentinel storage providers translate into.
package errs
