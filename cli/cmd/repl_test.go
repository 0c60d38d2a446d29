package cmd

import (
	"slices"
	"testing"
)

func TestEnvironNames(t *testing.T) {
	t.Setenv("ENVYAML_TEST_NAME", "a=b")

	names := environNames()
	if !slices.Contains(names, "ENVYAML_TEST_NAME") {
		t.Errorf("environNames() = %v, want ENVYAML_TEST_NAME", names)
	}

	if slices.Contains(names, "") {
		t.Error("environNames() contains an empty name")
	}
}
