package config

import (
	"fmt"
	"strings"

	"github.com/nao1215/ivansreport/internal/layout"
	"github.com/nao1215/ivansreport/internal/parser"
)

// Page orientations accepted in the configuration file.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// File represents the structure of the .ivansreport configuration file.
type File struct {
	// Delimiters are carrier specific separators tried before the built-in
	// ones, in the order listed.
	Delimiters []DelimiterConfig `yaml:"delimiters,omitempty"`

	// Report holds document level settings.
	Report ReportConfig `yaml:"report,omitempty"`

	// Page overrides the page geometry.
	Page PageConfig `yaml:"page,omitempty"`
}

// DelimiterConfig is one extra literal separator.
type DelimiterConfig struct {
	// Name is shown in summaries. Defaults to the token itself.
	Name string `yaml:"name,omitempty"`

	// Token is the literal separator, e.g. "^^" or ";".
	Token string `yaml:"token"`
}

// ReportConfig holds document level settings.
type ReportConfig struct {
	Title     string `yaml:"title,omitempty"`
	Subject   string `yaml:"subject,omitempty"`
	Encoding  string `yaml:"encoding,omitempty"`
	OutputDir string `yaml:"outputDir,omitempty"`
}

// PageConfig overrides parts of the page geometry. Zero values keep the
// current setting.
type PageConfig struct {
	// Size is a paper name: letter, legal or a4.
	Size string `yaml:"size,omitempty"`

	// Orientation is portrait or landscape. Defaults to landscape.
	Orientation string `yaml:"orientation,omitempty"`

	Margin         float64 `yaml:"margin,omitempty"`
	MinColumnWidth float64 `yaml:"minColumnWidth,omitempty"`
	CharWidth      float64 `yaml:"charWidth,omitempty"`
	RowHeight      float64 `yaml:"rowHeight,omitempty"`
}

// Validate checks the delimiters and page settings of the file.
func (f *File) Validate() error {
	for i, d := range f.Delimiters {
		if d.Token == "" {
			return fmt.Errorf("delimiters[%d]: %w", i, ErrEmptyDelimiterToken)
		}
	}
	_, err := f.Page.Apply(layout.DefaultGeometry())
	return err
}

// DelimiterRules returns the parser rules for the configured delimiters.
func (f *File) DelimiterRules() []parser.Rule {
	if f == nil {
		return nil
	}
	rules := make([]parser.Rule, 0, len(f.Delimiters))
	for _, d := range f.Delimiters {
		if d.Token == "" {
			continue
		}
		name := d.Name
		if name == "" {
			name = d.Token
		}
		rules = append(rules, parser.TokenRule(name, d.Token))
	}
	return rules
}

// Apply returns g with the overrides of p applied.
func (p PageConfig) Apply(g layout.Geometry) (layout.Geometry, error) {
	landscape := true
	switch strings.ToLower(strings.TrimSpace(p.Orientation)) {
	case "", OrientationLandscape:
	case OrientationPortrait:
		landscape = false
	default:
		return g, fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	switch {
	case p.Size != "":
		w, h, ok := layout.NamedPageSize(p.Size, landscape)
		if !ok {
			return g, fmt.Errorf("%w: %q", ErrUnknownPageSize, p.Size)
		}
		g.PageWidth, g.PageHeight = w, h
	case !landscape && g.PageWidth > g.PageHeight:
		g.PageWidth, g.PageHeight = g.PageHeight, g.PageWidth
	}

	if p.Margin > 0 {
		g.Margin = p.Margin
	}
	if p.MinColumnWidth > 0 {
		g.MinColumnWidth = p.MinColumnWidth
	}
	if p.CharWidth > 0 {
		g.CharWidth = p.CharWidth
	}
	if p.RowHeight > 0 {
		g.RowHeight = p.RowHeight
	}
	return g, nil
}
