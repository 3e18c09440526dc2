package filter

import "testing"

func TestFilter_ExtensionIs(t *testing.T) {
	f := New().SetExtensionIs("txt")
	if !f.Check("/r/a.txt") {
		t.Errorf("expected /r/a.txt to pass")
	}
	if f.Check("/r/a.pdf") {
		t.Errorf("expected /r/a.pdf to be rejected")
	}
}

func TestFilter_FilenameRegexCaseInsensitive(t *testing.T) {
	f := New().SetCaseSensitive(false)
	if err := f.SetFilenameRegex(`^report_\d+\.txt$`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Check("/R/Report_42.TXT") {
		t.Errorf("expected case-insensitive match to pass")
	}
	if f.Check("/R/notes.txt") {
		t.Errorf("expected non-matching filename to be rejected")
	}
}

func TestFilter_DirContainsAndNotContains(t *testing.T) {
	f := New().SetDirContains("reports").SetFilenameNotContains("draft")
	if !f.Check("/data/reports/final.txt") {
		t.Errorf("expected path under reports to pass")
	}
	if f.Check("/data/reports/draft_final.txt") {
		t.Errorf("expected draft filename to be rejected")
	}
	if f.Check("/data/other/final.txt") {
		t.Errorf("expected path outside reports to be rejected")
	}
}

func TestFilter_EmptyFilterPassesEverything(t *testing.T) {
	f := New()
	if !f.Check("/anything/at/all.bin") {
		t.Errorf("expected empty filter to pass every path")
	}
}

func TestSet_EmptySetPassesEverything(t *testing.T) {
	s := NewSet(ModeAnd)
	if !s.Check("/anything") {
		t.Errorf("expected empty set to pass every path")
	}
}

func TestSet_OrModeRequiresOneMatch(t *testing.T) {
	s := NewSet(ModeOr, New().SetExtensionIs("txt"), New().SetExtensionIs("pdf"))
	if !s.Check("/r/a.pdf") {
		t.Errorf("expected pdf to pass in Or mode")
	}
	if s.Check("/r/a.docx") {
		t.Errorf("expected docx to be rejected when no filter matches")
	}
}

func TestSet_AndModeRequiresAllMatch(t *testing.T) {
	s := NewSet(ModeAnd, New().SetExtensionIs("txt"), New().SetFilenameContains("report"))
	if !s.Check("/r/report_final.txt") {
		t.Errorf("expected matching both filters to pass")
	}
	if s.Check("/r/report_final.pdf") {
		t.Errorf("expected extension mismatch to fail And mode")
	}
}

func TestSet_OrModeAllFailingRejects(t *testing.T) {
	s := NewSet(ModeOr, New().SetExtensionIs("txt"), New().SetExtensionIs("pdf"))
	if s.Check("/r/a.zip") {
		t.Errorf("expected zip to be rejected when every filter fails")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("Or") != ModeOr {
		t.Errorf("expected Or to parse as ModeOr")
	}
	if ParseMode("or") != ModeOr {
		t.Errorf("expected case-insensitive parse")
	}
	if ParseMode("And") != ModeAnd {
		t.Errorf("expected And to parse as ModeAnd")
	}
	if ParseMode("") != ModeAnd {
		t.Errorf("expected unrecognized mode to default to And")
	}
}
