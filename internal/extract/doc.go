// Package extract converts uploaded documents into plain text.
//
// Only Office Open XML word documents (.docx) are supported. The payload is
// content-sniffed before it is opened so that renamed files of another type
// are rejected early.
package extract
