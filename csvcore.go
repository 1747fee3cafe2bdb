// # csvcore: a streaming RFC 4180 parser and serializer for Go
//
// csvcore is a streaming Go library for CSV parsing and writing built around a
// hand-rolled state machine over a growable buffer. It supports RFC 4180 plus
// an Escape dialect (a single escape character, no structural quoting) and a
// NoEscape dialect (raw delimiter/newline splitting only), field trimming,
// bad-data salvage, delimiter auto-detection, and write-side spreadsheet
// formula injection protection.
//
// # Features
//
//   - Streaming reader over a refillable buffer producing zero-copy field
//     spans, decoded on demand and optionally interned.
//   - Header-based field access with duplicate-name support and a
//     column-count invariant.
//   - Buffered, dialect-aware writer with configurable quoting and injection
//     sanitization (see the injection sub-package).
//   - Structured error reporting via ParseError and typed sentinel errors.
//   - Benchmarks, fuzz targets, and table-driven unit tests for regression
//     protection.
//
// # Getting started
//
// The module path is github.com/oleg578/csvcore.
package csvcore
