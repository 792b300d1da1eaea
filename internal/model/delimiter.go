package model

// DelimiterKind tells how a Delimiter splits a line.
type DelimiterKind int

const (
	// DelimiterToken splits on a literal multi-character token such as "???".
	DelimiterToken DelimiterKind = iota

	// DelimiterChar splits on a single literal character such as '|'.
	DelimiterChar

	// DelimiterWhitespaceRun splits on two or more consecutive whitespace
	// characters.
	DelimiterWhitespaceRun
)

// String returns a short name of the delimiter kind.
func (k DelimiterKind) String() string {
	switch k {
	case DelimiterToken:
		return "token"
	case DelimiterChar:
		return "char"
	case DelimiterWhitespaceRun:
		return "whitespace-run"
	default:
		return "unknown"
	}
}

// Delimiter is the field separator chosen for one document.
// Once chosen it is applied to every line of that document.
type Delimiter struct {
	// Name identifies the rule that selected this delimiter, e.g. "pipe".
	Name string

	// Kind selects the split strategy.
	Kind DelimiterKind

	// Token is the literal separator for DelimiterToken and DelimiterChar.
	// It is empty for DelimiterWhitespaceRun.
	Token string
}

// String returns a printable description of the delimiter.
func (d Delimiter) String() string {
	if d.Kind == DelimiterWhitespaceRun {
		return d.Name + " (2+ whitespace)"
	}
	return d.Name + " (" + quoteToken(d.Token) + ")"
}

// quoteToken makes control characters in a token visible.
func quoteToken(token string) string {
	switch token {
	case "\t":
		return `\t`
	case "":
		return `""`
	default:
		return `"` + token + `"`
	}
}
