// Package preflight provides readiness checks for the filesystem paths and
// external tools asciify depends on.
//
// The CLI "asciify status" command renders these results as a table, and
// "asciify convert" runs RunAll before submitting a job so an unwritable
// workspace is reported before any frame is extracted.
package preflight
