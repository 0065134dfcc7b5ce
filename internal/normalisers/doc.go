// Package normalisers provides implementations of the Normaliser interface
// for the file formats that can be imported as documents. Each normaliser
// converts one family of MIME types into rich-text content.
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
