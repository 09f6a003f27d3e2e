// Package project holds the project domain model consumed by the export
// pipeline and the stores it is loaded from.
//
// A Project carries its metadata, the on-disk locations of its repository,
// wiki, uploads and large-file objects, and its entity graph as a tree of
// Records. Stores come in two flavors: MemoryStore for tests and one-shot
// CLI runs from a manifest, and SQLiteStore for a persistent catalog.
package project
