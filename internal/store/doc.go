// Package store persists corpus check runs to SQLite so successive runs
// over the fixture corpus can be compared for regressions.
//
// A run row records one invocation of the check command; result rows
// record the outcome of every (fixture, target) conversion in that run.
package store
