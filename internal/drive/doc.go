// Package drive provides read-only access to the Google Drive folder that
// holds the vocabulary word-list documents: folder path resolution, document
// listing, and plain-text export. The Service interface is small enough to
// fake in tests; the production implementation wraps the official Drive v3
// API client.
package drive
