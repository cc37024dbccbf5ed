// Package server serves a generated catalog site over HTTP for local preview.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Site Handler
//
// [SiteHandler] serves the files of one output directory. Requests for a directory resolve to its index.html, and a
// missing index answers 404 with a hint to run generate-site first.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
