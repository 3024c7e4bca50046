// Package portal describes the backend's employee and project resources and
// the two operations every console screen builds on: loading a collection
// scoped to the current actor, and submitting a single mutation.
package portal
