// Package config provides configuration structures and utilities for
// ivansreport. It defines the options for converting carrier exports, the
// page geometry of the generated reports and the optional .ivansreport
// configuration file.
package config
