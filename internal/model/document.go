package model

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
)

// RawDocument is an uploaded carrier export file.
// It is created once per ingestion request and discarded after decoding.
type RawDocument struct {
	// Name is the advisory source file name, e.g. "POLICY0412.DAT".
	Name string

	// Ext is the lower-cased extension of Name including the dot.
	Ext string

	// Data is the unmodified file content.
	Data []byte

	// EncodingHint optionally names an encoding to try before UTF-8.
	// Labels are WHATWG encoding labels such as "windows-1252" or "latin1".
	EncodingHint string
}

// NewRawDocument creates a RawDocument for the given name and content.
func NewRawDocument(name string, data []byte) *RawDocument {
	return &RawDocument{
		Name: name,
		Ext:  strings.ToLower(filepath.Ext(name)),
		Data: data,
	}
}

// Size returns the document size in bytes.
func (d *RawDocument) Size() int {
	return len(d.Data)
}

// Digest returns the hex encoded SHA3-256 digest of the document content.
// The digest identifies re-uploads of the same carrier file in the history.
func (d *RawDocument) Digest() string {
	sum := sha3.Sum256(d.Data)
	return hex.EncodeToString(sum[:])
}

// DecodedText is the character content of a RawDocument.
type DecodedText struct {
	// Text is the decoded document with any byte order mark removed.
	Text string

	// Encoding is the name of the encoding that produced Text.
	Encoding string
}
