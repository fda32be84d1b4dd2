// Package domain contains the core domain entities of the URL discovery
// pipeline: categories, search results, confidence bundles and the
// request/result types that cross the pipeline boundary. The types are
// intentionally free of infrastructure concerns so they can be shared across
// packages.
package domain
