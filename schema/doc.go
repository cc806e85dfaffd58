// Package schema describes the entity metadata a Spanner mapping works on.
//
// A Universe holds every Type and Entity of a metadata snapshot:
//
//	u := schema.NewUniverse()
//	u.Register(&schema.Type{Name: "app.AlbumKey", Kind: schema.KindStruct, Fields: keyFields})
//	u.RegisterEntity(&schema.Entity{Name: "app.Album", Table: "Albums", Fields: fields})
//
// Entities carry their annotations by name. Identifier markers live in
// [field]; the Spanner interleave annotation lives in dialect/spannerschema.
//
// KeySet compares primary keys by field name and declared type name, which
// is the comparison interleave validation relies on.
package schema
