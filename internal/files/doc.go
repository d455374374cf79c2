// Package files reads the original bytes of uploaded items from the
// host's file storage. Read-only: the thumbnail subsystem never writes
// into the primary file namespace.
package files
