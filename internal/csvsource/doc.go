// Package csvsource reads the user CSV file into an ordered stream of
// records, each tagged with its 1-based line number in the original file,
// and provides a Dispatcher that hands records out to concurrent workers
// exactly once.
//
// Line numbers are the contract between this package and the rejects
// writer: a record that fails to import is identified solely by the line
// it came from, so the original text of that line can be written back
// untouched.
package csvsource
