// Package linkstore stores navigation fragments under short shareable IDs.
//
// A stored fragment is normalized first (parsed and re-formatted), so two
// spellings of the same route state share one canonical form.
//
// Backends:
//   - MemoryStore: process-local, for tests and single-node development
//   - SQLStore: sqlite database with embedded migrations
//   - S3Store: one object per link in an S3 bucket
//
// Open picks a backend from config.LinksConfig.
package linkstore
