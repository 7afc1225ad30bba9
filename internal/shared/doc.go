// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides test helpers only:
//
//	- CSV fixtures in the marketplace data layout
//	- a capturing slog handler with testify-based assertions
//
// Nothing under shared may import the service or transport layers.
package shared
