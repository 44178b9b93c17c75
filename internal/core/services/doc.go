// Package services contains the core application services: the capture
// orchestrator, the privacy decision engine, history queries, retention,
// export, and settings management.
package services
