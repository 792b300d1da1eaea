package parser

import (
	"regexp"
	"strings"

	"github.com/nao1215/ivansreport/internal/model"
)

// Sentinel is the three character token some carrier exporters write
// between fields.
const Sentinel = "???"

// whitespaceRun matches two or more consecutive whitespace characters.
var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// Rule pairs a line predicate with the delimiter chosen when it matches.
type Rule struct {
	// Match reports whether the probe line uses this rule's delimiter.
	Match func(line string) bool

	// Delimiter is the strategy applied to every line when Match succeeds.
	Delimiter model.Delimiter
}

// TokenRule returns a rule that selects a literal token when the probe line
// contains it. Single character tokens are reported as DelimiterChar.
func TokenRule(name, token string) Rule {
	kind := model.DelimiterToken
	if len([]rune(token)) == 1 {
		kind = model.DelimiterChar
	}
	return Rule{
		Match: func(line string) bool {
			return strings.Contains(line, token)
		},
		Delimiter: model.Delimiter{Name: name, Kind: kind, Token: token},
	}
}

// WhitespaceRunDelimiter is the delimiter used when no rule matches.
func WhitespaceRunDelimiter() model.Delimiter {
	return model.Delimiter{Name: "whitespace", Kind: model.DelimiterWhitespaceRun}
}

// DefaultRules returns the built-in rules in priority order:
// the "???" sentinel, a vertical bar and a horizontal tab.
func DefaultRules() []Rule {
	return []Rule{
		TokenRule("sentinel", Sentinel),
		TokenRule("pipe", "|"),
		TokenRule("tab", "\t"),
	}
}

// Inferrer selects the delimiter of a document.
// Only presence is tested, not frequency: the first matching rule wins even
// when a lower ranked delimiter would split the line more cleanly.
type Inferrer struct {
	rules []Rule
}

// NewInferrer creates an Inferrer that evaluates rules in order and falls
// back to splitting on whitespace runs.
func NewInferrer(rules ...Rule) *Inferrer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Inferrer{rules: rules}
}

// Infer returns the delimiter for text, probing its first non-empty line.
func (in *Inferrer) Infer(text string) model.Delimiter {
	return in.InferLine(FirstNonEmptyLine(text))
}

// InferLine returns the delimiter for a single probe line.
func (in *Inferrer) InferLine(line string) model.Delimiter {
	for _, rule := range in.rules {
		if rule.Match(line) {
			return rule.Delimiter
		}
	}
	return WhitespaceRunDelimiter()
}

// Rules returns a copy of the ranked rule list.
func (in *Inferrer) Rules() []Rule {
	rules := make([]Rule, len(in.rules))
	copy(rules, in.rules)
	return rules
}

// FirstNonEmptyLine returns the first line of text that contains anything
// besides whitespace. The line is returned untrimmed.
func FirstNonEmptyLine(text string) string {
	for _, line := range Lines(text) {
		return line
	}
	return ""
}
