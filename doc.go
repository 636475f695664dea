// Package chankit is a caching client for 4chan-style read-only JSON APIs.
//
// A Client talks to the API and validates board names; a Board owns an
// in-memory ThreadCache seeded from the board catalog. Catalog polls are
// conditional requests, so unchanged catalogs cost a 304 and no body.
// Thread reads revalidate lazily: GetThread and FindCached re-sync cached
// threads on access and evict the ones the server no longer serves.
//
// All values handed out by a Board or its cache are snapshots. Re-read
// after an update to observe its effect.
package chankit
