// Package storage defines the persistence interfaces for indexed document
// chunks and the serialization helpers shared by backend implementations.
//
// The store holds one IndexEntry per chunk: the chunk itself plus its dense
// embedding and sparse term weights. Retrieval scans entries rather than
// maintaining a vector index structure; corpora here are policy documents,
// small enough that a full scan is the simpler and faster choice.
//
// Implementations must be safe for concurrent use. The canonical backend
// lives in the badger subpackage and runs fully in memory.
package storage
