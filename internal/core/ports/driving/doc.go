// Package driving defines the interfaces the core exposes to its callers:
// the capture controller, history queries, and settings management.
package driving
