// Package normalisers extracts text from raw documents.
//
// Each sub-package implements driven.Normaliser for one format:
// pdf, docx and plaintext. The Registry in this package dispatches a
// RawDocument to the highest-priority normaliser that claims its format,
// falling back to its MIME type.
package normalisers
