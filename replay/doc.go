// Package replay provides replay-protection stores for the wireseal
// pipeline's phase-2 validation. A store answers one question: has this
// message identifier been seen before within the retention window.
//
// Two implementations ship: an in-process map for tests and single-process
// deployments, and a SQLite-backed store for deployments that need the seen
// set to survive restarts.
package replay
