package grammar

import "testing"

func TestCountSingular(t *testing.T) {
	if got := Count(1, "dependency"); got != "1 dependency" {
		t.Fatalf("Count(1, dependency) = %q", got)
	}
}

func TestCountPlural(t *testing.T) {
	if got := Count(3, "dependency"); got != "3 dependencies" {
		t.Fatalf("Count(3, dependency) = %q", got)
	}
}

func TestCountZeroUsesPlural(t *testing.T) {
	if got := Count(0, "feature"); got != "0 features" {
		t.Fatalf("Count(0, feature) = %q", got)
	}
}

func TestCountFallsBackForUnregisteredNoun(t *testing.T) {
	if got := Count(2, "workspace"); got != "2 workspaces" {
		t.Fatalf("Count(2, workspace) = %q", got)
	}
}
