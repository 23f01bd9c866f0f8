// Package record defines the capability contracts a type must satisfy to be
// searchable, and the normalized row shape results are returned in.
//
// A record type identifies itself through its table name. Two optional
// capabilities refine how it is searched:
//
//   - CategoryLabeled overrides the default pluralized category label.
//   - ExternallyIndexed routes searches to an external full-text index
//     instead of pattern-matching SQL.
package record
