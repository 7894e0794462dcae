package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRedactSensitive_CookieValue(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log a session cookie (should be masked even under a neutral key)
	cookie := "ttwid=1|ABCDEFGHIJKLMNOPQR|1726000000000"
	l.Info("cookie issued", "header", cookie)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	headerVal, ok := logEntry["header"].(string)
	if !ok {
		t.Fatal("Expected header field in log")
	}

	if headerVal == cookie {
		t.Errorf("Cookie should be redacted, got original value: %s", headerVal)
	}

	// Should contain the prefix and partial mask
	if headerVal != "ttwid=1|A...000" {
		t.Errorf("Cookie mask format incorrect, got: %s", headerVal)
	}
}

func TestRedactSensitive_PrefixBeatsKeyPattern(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// A ttwid value under a sensitive key is partially masked, not
	// fully redacted; the value prefix check runs first.
	cookie := "ttwid=1|ABCDEFGHIJKLMNOPQR|1726000000000"
	l.Info("connecting", "cookie", cookie)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	val, ok := logEntry["cookie"].(string)
	if !ok {
		t.Fatal("Expected cookie field in log")
	}

	if val != "ttwid=1|A...000" {
		t.Errorf("Cookie mask format incorrect, got: %s", val)
	}
}

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log with sensitive key names (should be redacted regardless of value)
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"password", "mysecret123", "***REDACTED***"},
		{"ms_token", "4CtyDAbsUrPvFkTsJKrhwIT2", "***REDACTED***"},
		{"signature", "00448512d2fe8060", "***REDACTED***"},
		{"auth_header", "bearer-xyz", "***REDACTED***"},
		{"credential", "cred123", "***REDACTED***"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			buf.Reset()
			l.Info("test", tt.key, tt.value)

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}

			val, ok := logEntry[tt.key].(string)
			if !ok {
				t.Fatalf("Expected %s field in log", tt.key)
			}

			if val != tt.expected {
				t.Errorf("Key %q should be redacted to %q, got %q", tt.key, tt.expected, val)
			}
		})
	}
}

func TestRedactSensitive_NormalValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Normal values should not be redacted
	l.Info("watching", "live_id", "123456789", "run_id", "lwrn-abc123")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if liveID, ok := logEntry["live_id"].(string); !ok || liveID != "123456789" {
		t.Errorf("Normal live_id should not be redacted, got: %v", logEntry["live_id"])
	}

	if runID, ok := logEntry["run_id"].(string); !ok || runID != "lwrn-abc123" {
		t.Errorf("Run ID (public) should not be redacted, got: %v", logEntry["run_id"])
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "session cookie",
			input:    "ttwid=1|ABCDEFGHIJKLMNOPQR|1726000000000",
			expected: "ttwid=1|A...000",
		},
		{
			name:     "short cookie",
			input:    "ttwid=AB",
			expected: "ttwid=***",
		},
		{
			name:     "normal value",
			input:    "normalvalue123",
			expected: "normalvalue123",
		},
		{
			name:     "run id (not sensitive)",
			input:    "lwrn-01JGXM5T9ABCDEF",
			expected: "lwrn-01JGXM5T9ABCDEF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RedactString(tt.input)
			if result != tt.expected {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key       string
		sensitive bool
	}{
		{"password", true},
		{"user_password", true},
		{"PASSWORD", true},
		{"secret", true},
		{"token", true},
		{"ms_token", true},
		{"cookie", true},
		{"ttwid", true},
		{"signature", true},
		{"x_signature", true},
		{"credential", true},
		{"auth", true},
		{"username", false},
		{"user_id", false},
		{"live_id", false},
		{"room_id", false},
		{"run_id", false},
		{"data", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := IsSensitiveKey(tt.key)
			if result != tt.sensitive {
				t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, result, tt.sensitive)
			}
		})
	}
}

func TestIsSensitiveValue(t *testing.T) {
	tests := []struct {
		value     string
		sensitive bool
	}{
		{"ttwid=abc123", true},
		{"lwrn-abc123", false}, // Run ID is public
		{"123456789", false},   // Room ID is public
		{"normal_value", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			result := IsSensitiveValue(tt.value)
			if result != tt.sensitive {
				t.Errorf("IsSensitiveValue(%q) = %v, want %v", tt.value, result, tt.sensitive)
			}
		})
	}
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		prefix   string
		expected string
	}{
		{
			name:     "long value",
			value:    "ttwid=1|ABCDEFGHIJKLMNOPQR|1726000000000",
			prefix:   "ttwid=",
			expected: "ttwid=1|A...000",
		},
		{
			name:     "short value",
			value:    "ttwid=ABCDEF",
			prefix:   "ttwid=",
			expected: "ttwid=***",
		},
		{
			name:     "minimal value",
			value:    "ttwid=AB",
			prefix:   "ttwid=",
			expected: "ttwid=***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskValue(tt.value, tt.prefix)
			if result != tt.expected {
				t.Errorf("maskValue(%q, %q) = %q, want %q", tt.value, tt.prefix, result, tt.expected)
			}
		})
	}
}
