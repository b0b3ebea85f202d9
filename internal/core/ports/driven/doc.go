// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AuthGateway: Remote login, registration, redirect exchange, who-am-i, logout
//   - PipelineGateway: Remote create, TOC, content and enrichment calls
//   - AssetGateway: Remote chapter and illustration mutations
//   - Exporter: Remote export byte streams
//   - TokenStore: Persistence of the bearer token
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ActivityStore: Local journal of stage events. Without it, history is empty.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
