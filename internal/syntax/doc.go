// Package syntax discovers the syntax resources installed in an editor data
// directory and gives access to their text.
//
// Resources are addressed by virtual paths such as
// "Packages/SQL/SQL.sublime-syntax". A resource lives either as a loose file
// under <data-dir>/Packages or as an entry of a zipped
// "<Package>.sublime-package" archive; loose files override archived ones.
// The physical location of a resource path is always <data-dir>/<path>, the
// parent of the Packages directory, which is where overrides are written.
//
// Only the header keys name, scope and hidden are decoded. The grammar
// itself is never parsed.
package syntax
