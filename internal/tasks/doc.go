// Package tasks implements catalog operations that span the repository and the metadata provider, with progress
// reporting for the long-running ones.
//
// # Core Operations
//
// [CatalogEngine] wires a [Store] (repositories.MovieRepository) to a [services.Enricher]:
//
//  1. [CatalogEngine.Enrich] : Fill one movie from the provider
//     - Looks the movie up by title
//     - Copies year, rating and poster when the provider has them
//     - Leaves the stored row untouched when the provider has nothing
//
//  2. [CatalogEngine.EnrichAll] : Enrich every stored movie
//     - Calls the provider sequentially behind a rate limiter
//     - Collects per-movie results, a failed lookup never aborts the run
//     - Stops early on context cancellation and returns what was done
//
//  3. [CatalogEngine.Stats], [CatalogEngine.Histogram], [CatalogEngine.Random], [CatalogEngine.Search] : Read-only
//     views over the catalog
//
// # Progress Reporting
//
// [ProgressUpdate] carries phase, step counters and a message. Updates are sent with select/default, so a slow or
// absent reader never blocks enrichment.
package tasks
