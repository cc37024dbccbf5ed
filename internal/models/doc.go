// Package models defines domain entities and persistence interfaces for the movie catalog.
//
// The package contains two categories of types:
//
// 1. Persistent Entities: Database-backed models with full lifecycle management
//   - [Movie] : A film record with a required title and optional year, rating and poster
//
// 2. Value Objects: Lightweight structs describing changes to entities
//   - [MoviePatch] : Field changes applied by the update command, parsed from "field=value" arguments
//   - [Enrichment] : Optional fields returned by the movie-information API
//   - [MovieRecord] : Plain, exported view of a [Movie] for JSON and export formats
//
// All persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
