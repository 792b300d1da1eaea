package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandler_SensitiveKeys tests that sensitive keys are masked.
func TestRedactHandler_SensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "ssn key", key: "ssn", value: "on file", wantMask: true},
		{name: "SSN key upper case", key: "SSN", value: "on file", wantMask: true},
		{name: "date of birth", key: "date_of_birth", value: "March 3", wantMask: true},
		{name: "policy number", key: "policy_number", value: "PA-100-22", wantMask: true},
		{name: "insured policy number", key: "insured_policy_no", value: "PA-100-22", wantMask: true},
		{name: "raw cells", key: "cells", value: "Jane Doe|Reno", wantMask: true},
		{name: "raw line", key: "row", value: "Jane Doe???Reno", wantMask: true},
		{name: "source file is kept", key: "source", value: "POLICY0412.DAT", wantMask: false},
		{name: "delimiter is kept", key: "delimiter", value: "pipe", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value to be masked, but found in output: %s", output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value in output, but not found: %s", output)
				}
			} else if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q in output: %s", tt.value, output)
			}
		})
	}
}

// TestRedactHandler_SensitiveValues tests masking by value pattern.
func TestRedactHandler_SensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantMask bool
	}{
		{name: "ssn with dashes", value: "123-45-6789", wantMask: true},
		{name: "ssn digits", value: "123456789", wantMask: true},
		{name: "ein", value: "12-3456789", wantMask: true},
		{name: "card number", value: "4111 1111 1111 1111", wantMask: true},
		{name: "date of birth", value: "04/12/1961", wantMask: true},
		{name: "premium", value: "1200.50", wantMask: false},
		{name: "file name", value: "POLICY0412.DAT", wantMask: false},
		{name: "short status", value: "ok", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, true)
			logger.Info("test message", "value", tt.value)

			output := buf.String()
			if got := strings.Contains(output, tt.value); got == tt.wantMask {
				t.Errorf("mask=%v expected for %q, output: %s", tt.wantMask, tt.value, output)
			}
		})
	}
}

// TestRedactHandler_Embedded tests masking inside longer strings.
func TestRedactHandler_Embedded(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)
	logger.Warn("insured 123-45-6789 skipped",
		"note", "tax id 12-3456789 on file",
		"error", errors.New("bad value 987-65-4321"),
	)

	output := buf.String()
	for _, secret := range []string{"123-45-6789", "12-3456789", "987-65-4321"} {
		if strings.Contains(output, secret) {
			t.Errorf("expected %s to be masked: %s", secret, output)
		}
	}
	if !strings.Contains(output, "tax id "+MaskValue+" on file") {
		t.Errorf("expected surrounding text to be kept: %s", output)
	}
}

// TestRedactHandler_LogLevels tests that log levels are respected.
func TestRedactHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		level      slog.Level
		shouldShow bool
	}{
		{name: "debug shown in verbose mode", verbose: true, level: slog.LevelDebug, shouldShow: true},
		{name: "debug hidden otherwise", verbose: false, level: slog.LevelDebug, shouldShow: false},
		{name: "info hidden otherwise", verbose: false, level: slog.LevelInfo, shouldShow: false},
		{name: "warn always shown", verbose: false, level: slog.LevelWarn, shouldShow: true},
		{name: "error always shown", verbose: false, level: slog.LevelError, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.verbose)

			testMsg := "test_unique_message_12345"
			logger.Log(t.Context(), tt.level, testMsg)

			if got := strings.Contains(buf.String(), testMsg); got != tt.shouldShow {
				t.Errorf("expected shown=%v, output: %s", tt.shouldShow, buf.String())
			}
		})
	}
}

// TestRedactHandler_WithAttrs tests that WithAttrs masks attributes.
func TestRedactHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true).With("ssn", "123-45-6789")
	logger.Info("test message")

	output := buf.String()
	if strings.Contains(output, "123-45-6789") {
		t.Errorf("expected ssn to be masked in WithAttrs: %s", output)
	}
}

// TestRedactHandler_WithGroup tests that grouped attributes are masked.
func TestRedactHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true).WithGroup("conversion")
	logger.Info("test message",
		"source", "claims.txt",
		slog.Group("first_row", "cells", "Jane Doe"),
	)

	output := buf.String()
	if !strings.Contains(output, "claims.txt") {
		t.Errorf("expected source to be visible: %s", output)
	}
	if strings.Contains(output, "Jane Doe") {
		t.Errorf("expected cells to be masked: %s", output)
	}
}

// TestNewJSONLogger tests JSON logger creation.
func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONLogger(&buf, true).Info("test message", "dob", "01/02/1970")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON format, got: %s", output)
	}
	if strings.Contains(output, "01/02/1970") {
		t.Errorf("expected dob to be masked: %s", output)
	}
}

// TestIsSensitiveKey tests key classification.
func TestIsSensitiveKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected bool
	}{
		{"insured_ssn", true},
		{"Birth_Date", true},
		{"carrier_tax_id", true},
		{"policy_number", true},
		{"source", false},
		{"encoding", false},
		{"row_count", false},
		{"column_count", false},
		{"step", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := isSensitiveKey(tt.key); got != tt.expected {
				t.Errorf("isSensitiveKey(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

// TestNewRedactHandler_NilHandler tests that a nil handler falls back to the default.
func TestNewRedactHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewRedactHandler(nil)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}
	slog.New(handler).Debug("test message")
}
