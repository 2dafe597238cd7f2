// Package engine drives the external execution engine (papermill) against
// an isolated per-request working directory, enforces startup and
// execution timeouts, and classifies failures into the gateway's error
// taxonomy.
package engine
