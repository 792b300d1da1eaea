// Package main provides the entry point for the ivansreport CLI.
//
// ivansreport converts carrier export files ("IVANS downloads") of unknown
// layout into paginated PDF reports.
//
// Usage:
//
//	ivansreport convert POLICY0412.DAT
//	ivansreport convert --output-dir reports downloads/
//	ivansreport history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
