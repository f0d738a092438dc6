// Package sync decides, per remote document, whether the local mirror is
// current, and when it is not, computes the term-level difference between
// the remote content and the cached copy. It is the orchestrator of a run:
// the drive listing, the parser, and the cache store are services it calls.
package sync
