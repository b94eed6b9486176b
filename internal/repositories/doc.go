// Package repositories provides the local persistence layer: a SQLite-backed
// cache of the last successfully fetched collection per (resource, query)
// pair.
//
// The cache is write-behind and best effort. It never feeds the live view
// (displayed lists always come from the server via package collection), but
// it lets `roost cache` inspect the most recent known state of a collection
// while offline, and gives exports a fallback source.
package repositories
