// Package file provides the on-disk extraction cache.
//
// Each cached result is a plain UTF-8 file named <base>_<method>.md in a flat
// directory, where <base> is the document file name without its extension.
// The file holds the method's output verbatim. An optional manifest records
// the engine version that produced each file; when present, entries written
// by a different engine version are recomputed.
package file
