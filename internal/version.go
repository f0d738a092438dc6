// Package internal holds shared module metadata.
package internal

// Version is the release version of ankivocab.
const Version = "0.3.1"
