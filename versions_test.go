// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi_test

import (
	"strings"
	"testing"

	"github.com/mdhender/fudi"
)

func TestVersion(t *testing.T) {
	v := fudi.Version()
	if got, want := v.Core(), "0.3.0"; got != want {
		t.Errorf("Core() = %q, want %q", got, want)
	}
	if !strings.HasPrefix(v.String(), "0.3.0") {
		t.Errorf("String() = %q, want prefix %q", v.String(), "0.3.0")
	}
}
