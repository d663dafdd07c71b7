// Package channels picks the delivery channel for a notification by scoring
// each enabled channel against the user's delivery statistics and device
// usage. A single selection policy is exposed; when no per-channel statistics
// exist yet, the selector degrades to a metrics-only comparison instead of
// surfacing a second public API.
package channels
