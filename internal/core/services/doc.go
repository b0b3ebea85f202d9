// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never hold a lock across a remote call. Shared state is
// guarded only while merging results.
package services
