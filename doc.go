// Package veloxspanner adapts velox schema generation to Cloud Spanner.
//
// Spanner imposes constraints that generic SQL dialects do not have:
// child tables may be physically interleaved in their parent, ARRAY
// columns carry a scalar element type, and DDL is submitted in batches.
// The subpackages derive and validate that information from an entity
// metadata snapshot:
//
//   - [schema]: entity, field and type descriptors and the type universe
//   - [schema/field]: identifier and embedded-identifier markers
//   - [compiler/load]: builds descriptors from Go structs or YAML snapshots
//   - [dialect/spannerschema]: the interleave annotation
//   - [dialect/spanner]: array element type codes and batched DDL execution
//   - [dialect/spanner/schema]: key resolution, interleave validation and
//     table lookups over a bound snapshot
//
// # Declaring an interleaved entity
//
//	type Singer struct {
//	    SingerID int64 `spanner:"id"`
//	    Name     string
//	}
//
//	type AlbumKey struct {
//	    SingerID int64
//	    AlbumID  int64
//	}
//
//	type Album struct {
//	    Key    AlbumKey `spanner:"embedded_id"`
//	    Title  string
//	    Genres []string
//	}
//
//	func (Album) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        spannerschema.InterleaveIn(Singer{}),
//	        spannerschema.OnDeleteCascade(),
//	    }
//	}
//
// # Errors
//
// The errors in this package classify fatal failures. UnsupportedTypeError
// aborts the column that requested it; FieldNotFoundError and
// TypeResolutionError report a broken mapping; EntityNotMappedError reports
// a lookup of an entity the snapshot does not contain.
package veloxspanner
