// Package dialect holds the dialect name and the connection method set
// shared by the Spanner packages.
//
// # Sub-packages
//
//   - dialect/spanner: array type mapping and batched DDL execution
//   - dialect/spanner/schema: key resolution, interleave validation and table lookup
//   - dialect/spannerschema: entity annotations for Spanner
package dialect
