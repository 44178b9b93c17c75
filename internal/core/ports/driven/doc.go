// Package driven defines the interfaces the core consumes: storage,
// configuration, and the external collaborators of the capture pipeline.
// Adapters implement these interfaces.
package driven
