// Package sink writes extracted records to a delimited text file.
//
// Every row is flushed to the file as soon as it is written, so the file
// always holds exactly the rows emitted so far, in emission order. A run
// that fails half way leaves a valid file with a header and the rows
// written before the failure.
package sink
