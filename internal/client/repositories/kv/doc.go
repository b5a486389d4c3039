// Package kv is the client's persistent key/value store: a single sqlite
// table mapping string keys to opaque byte values.
//
// Repository is bound to a dbx.DBTX, so the same code runs against *sql.DB
// for one-off reads and against *sql.Tx when several keys must change
// together. Get returns (nil, nil) for a missing key; callers treat that as
// "empty".
package kv
