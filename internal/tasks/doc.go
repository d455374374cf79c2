// Package tasks dispatches item lifecycle events to post-commit hooks
// and runs ad-hoc concurrent task batches.
//
// Hooks run after the host's own transaction has committed, which is
// why they have no error return: there is nothing left to roll back.
// Handlers log their own failures and panics are recovered so a bad
// hook never takes down the dispatcher.
package tasks
