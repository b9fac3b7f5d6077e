package util

import "testing"

func TestCleanExtractedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses newline runs",
			in:   "Experience\n\n\n\n\nBackend Intern",
			want: "Experience\n\nBackend Intern",
		},
		{
			name: "collapses space runs",
			in:   "Python     SQL  Docker",
			want: "Python SQL Docker",
		},
		{
			name: "trims line edges",
			in:   "  Summary  \n   Skills   ",
			want: "Summary\nSkills",
		},
		{
			name: "keeps paragraph breaks",
			in:   "First paragraph.\n\nSecond paragraph.",
			want: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name: "empty input",
			in:   "   \n\n  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanExtractedText(tt.in); got != tt.want {
				t.Fatalf("CleanExtractedText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
