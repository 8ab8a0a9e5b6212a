// Package outline reconstructs the bookmark tree of a PDF document.
//
// The outline is a linked structure of dictionaries: the catalog's
// /Outlines entry points at the outline root, whose /First is the first
// top-level item. Items are chained through /Next, and an item's /First
// starts its own chain of children. [Extract] walks that structure from
// the trailer and returns a tree of [Item] values in document order.
//
// Titles are decoded by [DecodeTitle]: strings with a FE FF byte order
// mark are UTF-16BE, everything else is treated as UTF-8 with invalid
// bytes replaced.
//
// Extraction is all or nothing: the first failure aborts with one of the
// Err* values and no items.
package outline
