// Package processor wires the pipeline together: Drive path resolution,
// per-document sync/diff, enrichment dispatch, audio synthesis, and note
// file output. Everything runs sequentially; a fatal error aborts the run
// leaving caches written so far intact.
package processor
