package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"0192f3aa-1b2c-7d3e-8f40-5a6b7c8d9e0f", RunID("0192f3aa-1b2c-7d3e-8f40-5a6b7c8d9e0f"), false},
		{" 0192F3AA-1B2C-7D3E-8F40-5A6B7C8D9E0F ", RunID("0192f3aa-1b2c-7d3e-8f40-5a6b7c8d9e0f"), false},
		{"run-123", "", true},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestRunIDIsEmpty(t *testing.T) {
	if !RunID("").IsEmpty() {
		t.Error("Expected empty run ID to be empty")
	}
	if NewRunID().IsEmpty() {
		t.Error("Expected generated run ID to be non-empty")
	}
}

func TestRunIDShort(t *testing.T) {
	id := RunID("0192f3aa-1b2c-7d3e-8f40-5a6b7c8d9e0f")
	if got := id.Short(); got != "0192f3aa" {
		t.Errorf("Expected short form '0192f3aa', got '%s'", got)
	}
	if got := RunID("plain").Short(); got != "plain" {
		t.Errorf("Expected 'plain', got '%s'", got)
	}
}
