// Package filters implements the PDF stream decoding filters needed to read
// cross-reference streams, object streams and other stream content.
//
// Supported filters:
//   - FlateDecode, with TIFF Predictor 2 and PNG predictors 10-15
//   - ASCIIHexDecode
//   - ASCII85Decode
//   - CCITTFaxDecode (Group 3 and Group 4, via golang.org/x/image/ccitt)
//
// Decode parameters are passed as [Params], a map of parameter names to
// int, float64, bool or string values.
package filters
