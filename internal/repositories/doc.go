// Package repositories implements SQLite persistence for all domain entities.
//
// Key Implementations:
//   - [MovieRepository] : Movie records with case-insensitive unique titles
//
// Every mutating call is a single auto-committed statement, so a command either persists its change or leaves the
// table untouched. Lookups of missing identifiers return [shared.ErrMovieNotFound], constraint failures map onto
// [shared.ErrInvalidInput] or [shared.ErrDuplicateMovie].
//
// Listing returns movies in identifier order (which is insertion order) unless the criteria ask for rating order.
package repositories
