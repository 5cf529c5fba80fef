// Package cache provides a generic bounded LRU.
//
// The cache is a single mutex over a map and a recency list. Entries are
// counted, not sized: callers cache small handles such as annotators rather
// than byte blocks. Hit, miss and eviction counters are lock-free atomics so
// Stats can be polled cheaply.
package cache
