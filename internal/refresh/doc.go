// Package refresh decides whether a scrip master table is fetched fresh or
// served from the local store.
//
// The decision depends on whether a cached table exists, whether it was
// written today and whether the caller asked for a hard refresh:
//
//	cache  today  hard   action
//	no     -      -      fetch, normalize, persist if non-empty
//	yes    no     -      fetch; if that fails serve the cache, else normalize and persist
//	yes    yes    false  serve the cache
//	yes    yes    true   fetch, normalize, persist if non-empty
//
// A paired request fetches both endpoints concurrently and concatenates the
// results. If either member fails the pair counts as failed.
package refresh
