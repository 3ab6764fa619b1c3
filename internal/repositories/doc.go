// Package repositories provides the persistence layer for run history.
//
// Every completed rank or artwork pass is recorded as a [models.Run] so the
// history command and the dashboard can show what the tool has done to the
// catalog over time. History is strictly observational: nothing in the rank or
// artwork pipelines reads it back.
package repositories
