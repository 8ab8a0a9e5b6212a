// Package core provides low-level PDF parsing primitives and object types.
//
// # Object Types
//
// PDF defines eight basic object types, all implemented as types satisfying the
// Object interface:
//
//   - [Null] - the PDF null object
//   - [Bool] - true/false
//   - [Int] - integers
//   - [Real] - real numbers
//   - [String] - literal or hexadecimal strings, held as raw bytes
//   - [Name] - names such as /Type or /Outlines
//   - [Array] - arrays
//   - [Dict] - dictionaries
//
// Additionally, [Stream] represents a PDF stream (dictionary + binary data),
// and [IndirectRef] represents a reference to an indirect object.
//
// # Parsing
//
// [Lexer] tokenizes PDF syntax and [Parser] builds objects from the tokens,
// including complete "num gen obj ... endobj" definitions. A [Parser] can be
// given a [ReferenceResolver] to look up stream lengths stored as indirect
// objects.
//
// # Cross-Reference Data
//
// [XRefParser] reads traditional xref tables and PDF 1.5 xref streams,
// following /Prev chains of incremental updates and the /XRefStm entry of
// hybrid files. [RebuildXRef] reconstructs the table of a damaged file by
// scanning for object headers.
//
// # Object Streams
//
// [ObjectStream] extracts objects stored in compressed object streams
// (Type /ObjStm).
//
// # Stream Decoding
//
// [Stream.Decode] applies the stream's filter chain: FlateDecode (with PNG
// and TIFF predictors), ASCIIHexDecode, ASCII85Decode and CCITTFaxDecode.
package core
