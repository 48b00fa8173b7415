// Package models contains GORM persistence models for the local website
// database. Domain entities stay free of GORM tags; each model converts to
// and from its entity with ToDomain / FromDomain.
//
// Structure:
//   - base.go: BaseModel shared by entity tables
//   - integration.go: entity mappings and system config
//   - trade.go: orders, items, custom params
//   - partner.go: customers, salespersons, ERP customer snapshots
//   - catalog.go: categories, product groups, SKUs
package models
