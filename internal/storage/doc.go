// Package storage abstracts where thumbnail bytes live.
//
// Two providers implement the same interface: Local writes plain files
// under a root directory, S3 talks to any S3-compatible bucket through
// the MinIO client. Callers never branch on the backend; the one
// behavioral difference surfaces through the Object a download returns:
// the local provider streams the bytes, the S3 provider hands back a
// presigned URL instead.
//
// Absence is a sentinel, not a transport failure: both providers
// translate their missing-object signal into errs.ErrNotFound.
package storage
