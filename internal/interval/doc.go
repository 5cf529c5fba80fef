// Package interval implements the balanced interval tree behind the
// annotation store.
//
// Entries are keyed by (span, id). Every node carries the largest span end
// of its subtree, which lets overlap queries skip whole subtrees, and the key
// order gives ordered neighbor scans in both directions.
package interval
