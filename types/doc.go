// Package types contains the core domain records, status enumerations,
// boundary interfaces, and sentinel errors shared across the BandhuConnect+
// coordination core.
//
// It exists as a separate package so that internal packages can depend on the
// domain model without importing the root bandhu package, avoiding import
// cycles. The root package re-exports the common types via aliases for
// convenience.
package types
