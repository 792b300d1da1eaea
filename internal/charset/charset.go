package charset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/nao1215/ivansreport/internal/model"
)

// Encoding names reported in model.DecodedText.
const (
	// UTF8 is the primary encoding.
	UTF8 = "utf-8"

	// Windows1252 is the legacy fallback encoding.
	Windows1252 = "windows-1252"
)

// utf8BOM is the UTF-8 byte order mark some exporters prepend.
var utf8BOM = []byte("\xef\xbb\xbf")

// Decode converts raw to text.
//
// When hint names a known encoding other than UTF-8, that encoding is tried
// first and used if it yields no replacement characters. Otherwise the
// buffer is decoded as UTF-8 when it is structurally valid, and as
// Windows-1252 when it is not. An unknown hint is ignored.
//
// A leading UTF-8 byte order mark is dropped whichever encoding wins.
// Decode returns model.ErrEncodingDecodeFailure only for empty input.
func Decode(raw []byte, hint string) (model.DecodedText, error) {
	if len(raw) == 0 {
		return model.DecodedText{}, fmt.Errorf("%w: empty document", model.ErrEncodingDecodeFailure)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if enc, name, ok := lookupHint(hint); ok && name != UTF8 {
		if text, err := decodeWith(enc, raw); err == nil && !strings.ContainsRune(text, utf8.RuneError) {
			return model.DecodedText{Text: text, Encoding: name}, nil
		}
	}

	if utf8.Valid(raw) {
		return model.DecodedText{Text: string(raw), Encoding: UTF8}, nil
	}

	text, err := decodeWith(charmap.Windows1252, raw)
	if err != nil {
		return model.DecodedText{}, fmt.Errorf("%w: %s: %v", model.ErrEncodingDecodeFailure, Windows1252, err)
	}
	return model.DecodedText{Text: text, Encoding: Windows1252}, nil
}

// KnownEncoding reports whether label names an encoding Decode can honour.
func KnownEncoding(label string) bool {
	_, _, ok := lookupHint(label)
	return ok
}

// lookupHint resolves an encoding label to an encoding and its canonical name.
func lookupHint(label string) (encoding.Encoding, string, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, "", false
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", false
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, "", false
	}
	return enc, name, true
}

// decodeWith decodes raw with enc.
func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
