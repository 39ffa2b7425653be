package subtitle

import "testing"

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
こんにちは

2
00:00:04,000 --> 00:00:06,000
<i>世界</i>です
二行目
`

func TestParseSRT(t *testing.T) {
	cues := ParseSRT(sampleSRT)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].StartTime != "00:00:01,000" || cues[0].EndTime != "00:00:03,500" {
		t.Errorf("cue 0 timestamps: %s --> %s", cues[0].StartTime, cues[0].EndTime)
	}
	if cues[0].Text != "こんにちは" {
		t.Errorf("cue 0 text: %q", cues[0].Text)
	}
	if cues[1].Text != "<i>世界</i>です\n二行目" {
		t.Errorf("cue 1 text: %q", cues[1].Text)
	}
}

func TestParseSRTNoTrailingBlank(t *testing.T) {
	cues := ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nテスト")
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != "テスト" {
		t.Errorf("text: %q", cues[0].Text)
	}
}

func TestParseSRTDotMilliseconds(t *testing.T) {
	cues := ParseSRT("00:00:01.000 --> 00:00:02.000\nドット区切り")
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
}

func TestParseSRTMalformed(t *testing.T) {
	for _, content := range []string{
		"",
		"garbage with no timestamps\nat all",
		"1\n00:00:01,000 --> 00:00:02,000\n\n\n",
	} {
		if cues := ParseSRT(content); len(cues) != 0 {
			t.Errorf("ParseSRT(%q) = %d cues, want 0", content, len(cues))
		}
	}
}

func TestParseSRTMissingIndexNumbers(t *testing.T) {
	cues := ParseSRT("00:00:01,000 --> 00:00:02,000\n一\n\n00:00:03,000 --> 00:00:04,000\n二\n")
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Index != 1 || cues[1].Index != 2 {
		t.Errorf("indexes: %d, %d", cues[0].Index, cues[1].Index)
	}
}

func TestToSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:01:02,500", 62.5},
		{"00:00:00,000", 0},
		{"01:00:00,000", 3600},
		{"00:01:02.500", 62.5},
		{"10:59:59,999", 10*3600 + 59*60 + 59.999},
	}
	for _, tt := range tests {
		if got := ToSeconds(tt.in); got != tt.want {
			t.Errorf("ToSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<i>世界</i>です", "世界です"},
		{`<font color="red">赤</font>`, "赤"},
		{"タグなし", "タグなし"},
		{"  空白  ", "空白"},
	}
	for _, tt := range tests {
		if got := StripMarkup(tt.in); got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
