// Package hooks wires item lifecycle events to thumbnail maintenance.
//
// Created image items get their variants generated from the original
// file, copied items get their variants duplicated, deleted items get
// theirs removed, and newly created app items receive their template's
// icons. Eligibility is checked first: only file-backed items with an
// image mimetype trigger generation, everything else is skipped
// silently.
package hooks
