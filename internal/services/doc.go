// Package services defines the [Enricher] interface for movie metadata providers and implements it for OMDb.
//
// # Enricher Interface
//
// Catalog operations only ever need a title lookup, so every provider reduces to a single call:
//
//	Fetch(ctx, title) (*models.Enrichment, error)
//
// # OMDb Implementation
//
// [OMDbClient] issues one GET per lookup against the configured base URL with the API key and title as query
// parameters. No retries, no caching.
//
// OMDb marks absent values with the literal "N/A", so the client maps:
//   - Year: first four characters ("2010–2014" → 2010), unparsable → nil
//   - imdbRating: decimal, "N/A" → nil
//   - Poster: "N/A", "None" or empty → ""
//
// # Error Handling
//
//   - [shared.ErrMissingCredentials] : no API key at construction
//   - [shared.ErrNoData] : no match, nothing usable in the match, or the request failed
//
// Transport failures are wrapped under [shared.ErrNoData] with the cause attached, so callers treat an unreachable
// provider and an unknown title the same way.
package services
