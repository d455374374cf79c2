// Package items holds the read-only view of host items this subsystem
// consumes, plus the eligibility rule for automatic thumbnail
// generation.
package items
