// Package storage is the single owner of the client's persisted state.
//
// All state lives in the kv table under a small logical key space:
//
//	session.snapshot      active AccountSnapshot
//	session.pending       username waiting for its one-time passphrase
//	addresses.<username>  that account's StoredAddress list, newest first
//	generated_addresses   legacy unpartitioned list, entries tagged by owner
//	accounts.registry     []AccountRegistryEntry
//	accounts.current      active username
//	features.<name>       feature toggles and granted capabilities
//	vault.salt            salt for the sealing key (survives ClearSession)
//
// Every operation re-reads the keys it needs and writes whole values back
// inside one transaction, so no in-memory copy is ever authoritative and two
// writers cannot interleave a read-modify-write on the same list.
//
// Apart from AppendGeneratedAddress and MergeAddresses, operations tolerate a
// missing active account: they return an empty result or false with a nil
// error.
package storage
