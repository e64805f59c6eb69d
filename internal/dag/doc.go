// Package dag provides a small, concurrency-safe directed graph keyed by
// string IDs. The in-memory scene uses it to keep its dataflow connections
// acyclic: every connection becomes an edge and a new connection is refused
// when its destination already reaches its source.
package dag
