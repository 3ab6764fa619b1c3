// Package models defines domain entities for the topspin album catalog manager.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): in-memory values built fresh per pass
//   - [Album] : parsed album page carrying its stable Notion page handle
//
// 2. Persistent Entities: database-backed records
//   - [Run] : one completed rank or artwork pass kept in local run history
//
// Album values are constructed from a Notion snapshot, mutated by the rank
// normalizer, written back, and discarded; no intermediate ranking state is
// persisted between passes.
package models
