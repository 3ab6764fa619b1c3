// Package catalog implements the pure, in-memory album pipeline: parsing raw
// database pages into [models.Album] values and normalizing their ranks.
//
// Parsing never fails; missing or malformed fields degrade to documented
// defaults ("Untitled", "Unknown", unranked). Normalization filters to listened
// albums, repairs duplicate ranks, appends defaults for unranked albums, and
// renders fixed-width zero-padded labels under one of two policies:
//
//   - [PolicyDefault] keeps original spacing, only repairing collisions and
//     appending new ranks after the current maximum.
//   - [PolicyCompact] discards spacing and renumbers the sorted sequence
//     densely from 1.
//
// Everything here is deterministic and side-effect free; the tasks engine owns
// all I/O.
package catalog
