// Package evolve decides which semantic fallback backend the engine runs on.
// A controller accumulates per-document outcome samples into a single-backend
// metrics window; when a full window misses its thresholds and an alternative
// backend is registered, the controller hot-swaps the active backend behind
// an atomic pointer and starts a fresh window. Backends that fail to
// initialize are retried with exponential backoff.
package evolve
