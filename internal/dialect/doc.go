// Package dialect redirects an umbrella syntax to one of its dialects.
//
// An umbrella syntax such as "SQL" (scope source.sql) declares
//
//	extends: Packages/SQL/MySQL.sublime-syntax
//
// and every embedding of scope:source.sql therefore highlights as MySQL.
// Enumerate lists the syntaxes that may take MySQL's place, i.e. the
// non-hidden syntaxes whose scope starts with the umbrella's first two scope
// segments. Patcher rewrites the path after extends: and nothing else.
//
// The extends: line is located with a line-anchored regular expression, not
// a YAML parser, so the rest of the file is kept byte for byte.
package dialect
