// Package registry fans one free-text search out across every registered
// search aspect and collects the per-category results.
//
// Results keep registration order and are neither ranked nor deduplicated
// across categories; callers that need merging do it on top. Each aspect
// search is counted and timed with Prometheus metrics when configured.
package registry
