// Package pathing computes the storage keys thumbnails live under.
//
// Every item id is hashed with sha256 and the hex digest is split into
// fixed-width segments joined by "/", giving a deterministic, evenly
// distributed directory layout:
//
//	/thumbnails/0b9c2625/dc21ef05/f6ad4ddf/47c5f203/837c015c/8c2bcb17/50776aad/fd9afd8f/small
//
// The same function serves both backends: on the filesystem the segments
// bound per-directory fan-out, on object storage they simply namespace
// the key. Keys are never derived from an empty id; that is a contract
// violation and fails loudly.
package pathing
