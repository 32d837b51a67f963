package main

import (
	"strings"
	"testing"
)

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("bare invocation must show help, got error: %v", err)
	}
	if !strings.Contains(out, "Study Assistant") || !strings.Contains(out, "Commands:") {
		t.Fatalf("expected help output, got: %s", out)
	}
}

func TestRoot_FlagsWithoutQuestionError(t *testing.T) {
	out, err := executeCommand(t, "--ground")
	if err == nil {
		t.Fatalf("expected error when flags are set without a question")
	}
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("expected usage output, got: %s", out)
	}
}

func TestTranslate_RequiresTargetFlag(t *testing.T) {
	_, err := executeCommand(t, "translate", "hello world")
	if err == nil || !strings.Contains(err.Error(), "--target") {
		t.Fatalf("expected --target requirement, got: %v", err)
	}
}

func TestGrammar_RequiresTargetFlag(t *testing.T) {
	_, err := executeCommand(t, "grammar", "une phrase")
	if err == nil || !strings.Contains(err.Error(), "--target") {
		t.Fatalf("expected --target requirement, got: %v", err)
	}
}

func TestLanguages_ListsCodes(t *testing.T) {
	out, err := executeCommand(t, "languages")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	for _, want := range []string{"Supported Languages:", "Japanese", "[ja]", "Urdu", "[ur]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestAbout_PrintsLink(t *testing.T) {
	out, err := executeCommand(t, "about")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "github.com/okulab/sage") {
		t.Fatalf("expected project link, got: %s", out)
	}
}
