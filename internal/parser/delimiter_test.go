package parser

import (
	"testing"

	"github.com/nao1215/ivansreport/internal/model"
)

// TestInferLine tests the fixed priority of the built-in rules.
func TestInferLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		wantName string
		wantKind model.DelimiterKind
	}{
		{
			name:     "sentinel token",
			line:     "NAME???AGE???CITY",
			wantName: "sentinel",
			wantKind: model.DelimiterToken,
		},
		{
			name:     "pipe",
			line:     "NAME|AGE|CITY",
			wantName: "pipe",
			wantKind: model.DelimiterChar,
		},
		{
			name:     "tab",
			line:     "NAME\tAGE\tCITY",
			wantName: "tab",
			wantKind: model.DelimiterChar,
		},
		{
			name:     "no candidate falls back to whitespace runs",
			line:     "NAME    AGE    CITY",
			wantName: "whitespace",
			wantKind: model.DelimiterWhitespaceRun,
		},
		{
			name:     "sentinel beats pipe even when pipe splits more",
			line:     "A|B|C|D???E",
			wantName: "sentinel",
			wantKind: model.DelimiterToken,
		},
		{
			name:     "pipe beats tab",
			line:     "A\tB\tC|D",
			wantName: "pipe",
			wantKind: model.DelimiterChar,
		},
		{
			name:     "two question marks are not the sentinel",
			line:     "WHAT??NOW",
			wantName: "whitespace",
			wantKind: model.DelimiterWhitespaceRun,
		},
	}

	in := NewInferrer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := in.InferLine(tt.line)
			if got.Name != tt.wantName {
				t.Errorf("expected rule %q, got %q", tt.wantName, got.Name)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, got.Kind)
			}
		})
	}
}

// TestInferProbesFirstNonEmptyLine tests that only the first non-empty line
// decides the delimiter.
func TestInferProbesFirstNonEmptyLine(t *testing.T) {
	t.Parallel()

	text := "\n   \nNAME|AGE\nJane\t34\n"
	got := NewInferrer().Infer(text)
	if got.Name != "pipe" {
		t.Errorf("expected pipe, got %s", got)
	}
}

// TestInferEmptyText tests inference without any line.
func TestInferEmptyText(t *testing.T) {
	t.Parallel()

	got := NewInferrer().Infer("\n\n")
	if got.Kind != model.DelimiterWhitespaceRun {
		t.Errorf("expected whitespace fallback, got %s", got)
	}
}

// TestCustomRules tests that rules can be added without touching inference.
func TestCustomRules(t *testing.T) {
	t.Parallel()

	t.Run("extra rule ranks first", func(t *testing.T) {
		t.Parallel()

		in := NewInferrer(TokenRule("caret", "^^"), TokenRule("pipe", "|"))
		got := in.InferLine("A^^B|C")
		if got.Name != "caret" || got.Token != "^^" {
			t.Errorf("expected caret rule, got %s", got)
		}
	})

	t.Run("single character token is a char delimiter", func(t *testing.T) {
		t.Parallel()

		rule := TokenRule("semicolon", ";")
		if rule.Delimiter.Kind != model.DelimiterChar {
			t.Errorf("expected char kind, got %s", rule.Delimiter.Kind)
		}
	})

	t.Run("rules are copied", func(t *testing.T) {
		t.Parallel()

		in := NewInferrer()
		rules := in.Rules()
		rules[0] = TokenRule("caret", "^^")
		if in.Rules()[0].Delimiter.Name != "sentinel" {
			t.Error("expected internal rules to be unchanged")
		}
	})
}

// TestFirstNonEmptyLine tests probe line selection.
func TestFirstNonEmptyLine(t *testing.T) {
	t.Parallel()

	if got := FirstNonEmptyLine("\r\n \t \r\n\tA\tB\r\n"); got != "\tA\tB" {
		t.Errorf("expected untrimmed tab line, got %q", got)
	}
	if got := FirstNonEmptyLine(""); got != "" {
		t.Errorf("expected empty line, got %q", got)
	}
}
