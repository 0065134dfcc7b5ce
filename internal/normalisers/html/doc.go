// Package html provides a Normaliser implementation for HTML documents.
// It walks the parsed node tree and maps headings, lists, quotes, pre
// blocks and inline emphasis onto rich-text attributes, dropping scripts,
// styles and other non-content elements.
package html
