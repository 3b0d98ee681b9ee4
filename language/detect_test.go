package language

import "testing"

func Test_Detect_CppSource(t *testing.T) {
	if d := Detect("src/widgets/button.cpp"); d != "C++ source" {
		t.Errorf("expected C++ source, got %s", d)
	}
}

func Test_Detect_Header(t *testing.T) {
	if d := Detect("include/button.h"); d != "C/C++ header" {
		t.Errorf("expected C/C++ header, got %s", d)
	}
}

func Test_Detect_RichText(t *testing.T) {
	if d := Detect("docs/legacy_export.rtf"); d != "Rich text" {
		t.Errorf("expected Rich text, got %s", d)
	}
}

func Test_Detect_CaseInsensitive(t *testing.T) {
	if d := Detect("LEGACY.CPP"); d != "C++ source" {
		t.Errorf("expected C++ source, got %s", d)
	}
}

func Test_Detect_UntrackedExtension(t *testing.T) {
	if d := Detect("build.ninja"); d != "Other" {
		t.Errorf("expected Other, got %s", d)
	}
}
