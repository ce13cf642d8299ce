// Package pagination implements the paging and sorting flags of list-style
// commands.
//
// Two mutually exclusive modes are supported: --limit/--offset and
// --page/--page-size. Sorting takes a "field" or "field:order" expression.
package pagination
