package affinity

import "testing"

func TestNoteText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "Intro call\n\nwent well", "Intro call went well"},
		{"paragraphs", "<p>Met the founder.</p><p>Raising in <b>Q3</b>.</p>", "Met the founder. Raising in Q3."},
		{"line breaks", "Deck sent<br>Follow up next week", "Deck sent Follow up next week"},
		{"entities", "<div>R&amp;D heavy &gt; 50%</div>", "R&D heavy > 50%"},
		{"list", "<ul><li>ARR 1M</li><li>12 people</li></ul>", "ARR 1M 12 people"},
		{"script dropped", "<p>ok</p><script>alert(1)</script>", "ok"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteText(tt.content); got != tt.want {
				t.Errorf("NoteText(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
