// Package reader provides PDF document loading and object resolution.
//
// This package orchestrates the lower-level core package: it finds the
// header, merges the cross-reference sections of every revision and
// resolves object references, including objects stored in compressed
// object streams.
//
// # Loading Documents
//
// Documents are read fully into memory:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [Load] accepts a byte slice and [NewReader] any io.ReadSeeker.
//
// Files with damaged cross-reference data are repaired by scanning for
// object headers; [Reader.Repaired] reports when that happened. Encrypted
// documents are rejected with [ErrEncrypted].
//
// # Object Resolution
//
//   - Trailer() - trailer dictionary
//   - Lookup(ref) - resolve an IndirectRef, checking its generation
//   - GetObject(objNum) - load object by number
//   - Resolve(obj) - resolve if indirect, otherwise return as-is
//
// A Reader caches loaded objects and is not safe for concurrent use.
package reader
