package linker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"prog.py", "prog"},
		{"dir/sub/abc081_b.py", "abc081_b"},
		{"my prog!.py", "my_prog_"},
		{"noext", "noext"},
		{"ünï.py", "_n_"},
		{".py", "main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.name); got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewDefaultsGoBinary(t *testing.T) {
	if l := New("", "build", false); l.goBinary != "go" {
		t.Errorf("goBinary = %q", l.goBinary)
	}
}

func TestLinkMissingToolchain(t *testing.T) {
	buildDir := t.TempDir()
	l := New(filepath.Join(t.TempDir(), "no-such-go"), buildDir, false)

	err := l.Link(context.Background(), "prog.py", []byte("package main\n"), filepath.Join(t.TempDir(), "prog"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "build prog.py") {
		t.Errorf("error %q does not name the program", err)
	}
	if _, statErr := os.Stat(filepath.Join(buildDir, "prog")); !os.IsNotExist(statErr) {
		t.Error("build directory must be removed")
	}
}

func TestLinkKeepsSource(t *testing.T) {
	buildDir := t.TempDir()
	l := New(filepath.Join(t.TempDir(), "no-such-go"), buildDir, true)

	src := []byte("package main\n\nfunc main() {}\n")
	_ = l.Link(context.Background(), "keep.py", src, filepath.Join(t.TempDir(), "keep"))

	got, err := os.ReadFile(filepath.Join(buildDir, "keep", "main.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(src) {
		t.Errorf("kept source = %q", got)
	}
}
