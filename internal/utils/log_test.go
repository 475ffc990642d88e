package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "counts runes not bytes",
			input:  "резюме кандидата",
			limit:  6,
			expect: "резюме...",
		},
		{
			name:   "response body preview",
			input:  `{"detail":"rate limited"}`,
			limit:  9,
			expect: `{"detail"...`,
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestBodyPreview(t *testing.T) {
	t.Parallel()

	body := []byte("{\n  \"status\": \"success\",\n\t\"content\": {}\n}\n")

	if got := BodyPreview(body, 100); got != `{ "status": "success", "content": {} }` {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := BodyPreview(body, 12); got != `{ "status": ...` {
		t.Fatalf("unexpected truncated preview %q", got)
	}
	if got := BodyPreview(nil, 10); got != "" {
		t.Fatalf("expected empty preview, got %q", got)
	}
}
