// Package charset turns the raw bytes of a carrier export file into text.
//
// Carrier tooling writes either UTF-8 or a legacy single-byte Western code
// page. Decode first honours an optional caller supplied encoding label,
// then tries strict UTF-8 and finally falls back to Windows-1252, which
// accepts every byte value. Decoding is a pure function of its input.
package charset
