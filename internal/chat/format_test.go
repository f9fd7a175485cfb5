package chat

import (
	"strings"
	"testing"
)

func TestResultFilename(t *testing.T) {
	f := NewFormatter(10)

	tests := []struct {
		name    string
		keyword string
		count   int
		want    string
	}{
		{"plain keyword", "error", 3, "results_error_3.txt"},
		{"spaces become underscores", "disk full", 12, "results_disk_full_12.txt"},
		{"hostile characters dropped", "../../etc", 1, "results_etc_1.txt"},
		{"all characters dropped", "///", 1, "results_search_1.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ResultFilename(tt.keyword, tt.count); got != tt.want {
				t.Errorf("ResultFilename(%q, %d) = %q, want %q", tt.keyword, tt.count, got, tt.want)
			}
		})
	}
}

func TestResultDocument(t *testing.T) {
	f := NewFormatter(10)

	doc := f.ResultDocument(7, "error", []string{"a", "b", "c"}, false, 200)
	if doc.ChatID != 7 {
		t.Errorf("ChatID = %d, want 7", doc.ChatID)
	}
	if string(doc.Content) != "a\nb\nc" {
		t.Errorf("Content = %q, want newline-joined batch", doc.Content)
	}
	if strings.Contains(doc.Caption, "capped") {
		t.Errorf("Caption = %q mentions cap for uncapped batch", doc.Caption)
	}

	capped := f.ResultDocument(7, "error", []string{"a"}, true, 200)
	if !strings.Contains(capped.Caption, "200") {
		t.Errorf("capped Caption = %q, want cap hint", capped.Caption)
	}
}

func TestResultPreview_Bounded(t *testing.T) {
	f := NewFormatter(2)

	lines := []string{"one", "two", "three", "four"}
	msg := f.ResultPreview(7, "error", lines, 4)

	if !strings.Contains(msg.Text, "one") || !strings.Contains(msg.Text, "two") {
		t.Errorf("preview missing leading lines: %q", msg.Text)
	}
	if strings.Contains(msg.Text, "three") {
		t.Errorf("preview includes line past the preview size: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "2 more") {
		t.Errorf("preview missing overflow hint: %q", msg.Text)
	}
	if len(msg.Buttons) == 0 {
		t.Error("preview missing pagination buttons for oversized batch")
	}
}

func TestResultPreview_SmallBatchHasNoButtons(t *testing.T) {
	f := NewFormatter(10)

	msg := f.ResultPreview(7, "error", []string{"one"}, 1)
	if msg.Buttons != nil {
		t.Errorf("Buttons = %v, want none when everything fits", msg.Buttons)
	}
}

func TestPageButtons(t *testing.T) {
	f := NewFormatter(10)

	// First page: next only.
	buttons := f.PageButtons("error", 0, 25)
	if len(buttons) != 1 || len(buttons[0]) != 1 {
		t.Fatalf("PageButtons(first) = %v, want one next button", buttons)
	}
	if buttons[0][0].Action != EncodePageAction("error", 10) {
		t.Errorf("next action = %q, want offset 10", buttons[0][0].Action)
	}

	// Middle page: prev and next.
	buttons = f.PageButtons("error", 10, 25)
	if len(buttons) != 1 || len(buttons[0]) != 2 {
		t.Fatalf("PageButtons(middle) = %v, want prev and next", buttons)
	}

	// Last page: prev only.
	buttons = f.PageButtons("error", 20, 25)
	if len(buttons) != 1 || len(buttons[0]) != 1 {
		t.Fatalf("PageButtons(last) = %v, want one prev button", buttons)
	}
	if buttons[0][0].Action != EncodePageAction("error", 10) {
		t.Errorf("prev action = %q, want offset 10", buttons[0][0].Action)
	}

	// Single page: nothing to navigate.
	if buttons = f.PageButtons("error", 0, 5); buttons != nil {
		t.Errorf("PageButtons(single page) = %v, want nil", buttons)
	}
}

func TestPageActionRoundTrip(t *testing.T) {
	action := EncodePageAction("disk: full", 40)
	keyword, offset, ok := DecodePageAction(action)
	if !ok {
		t.Fatalf("DecodePageAction(%q) not ok", action)
	}
	if keyword != "disk: full" || offset != 40 {
		t.Errorf("DecodePageAction() = %q, %d; want keyword with separator preserved", keyword, offset)
	}
}

func TestDecodePageAction_Invalid(t *testing.T) {
	for _, action := range []string{"search", "page:x:error", "page:-1:error", "page:5", ""} {
		if _, _, ok := DecodePageAction(action); ok {
			t.Errorf("DecodePageAction(%q) = ok, want rejection", action)
		}
	}
}
