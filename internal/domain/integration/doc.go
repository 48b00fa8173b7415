// Package integration contains the ERP synchronization bounded context.
// It keeps the local (website) store consistent with the remote ERP store,
// which has its own schema, column encodings and identifier space.
//
// Key concepts:
//   - EntityMapping: persisted correspondence between a local entity ID and
//     the code the ERP knows it by (customers and salespersons)
//   - OrderSyncStatus: export state of a local order (unset, pending, synced, failed)
//   - AttributeMark: parsed form of an item's additional-attributes field
//   - Byte-width truncation: fitting text into fixed-width double-byte ERP columns
//   - Product prefix grouping: deriving product groups and categories from ERP names
//
// Design Pattern: Ports & Adapters
//   - Ports for the remote store (RemoteEntityStore, RemoteOrderStore,
//     RemoteProductReader, RemotePartnerReader) are defined here
//   - Adapters live in infrastructure/erpdb; local repositories in
//     infrastructure/persistence
//
// Sequence generation for remote codes and order numbers reads the current
// maximum and inserts max+1. It is only correct with a single writer per
// prefix, which the application layer enforces through SyncLock.
package integration
