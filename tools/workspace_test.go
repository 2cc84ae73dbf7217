package tools

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestNewWorkspaceCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	ws, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	info, err := os.Stat(ws.Root())
	if err != nil {
		t.Fatalf("workspace root not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("workspace root is not a directory")
	}
}

func TestResolveInsideWorkspace(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	path, err := ws.Resolve("src/main.py")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !strings.HasPrefix(path, ws.Root()) {
		t.Errorf("resolved path %q escapes root %q", path, ws.Root())
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	cases := []string{
		"../outside.txt",
		"../../etc/passwd",
		"a/../../outside.txt",
		"..",
	}
	for _, rel := range cases {
		if _, err := ws.Resolve(rel); err == nil {
			t.Errorf("Resolve(%q) should have been rejected", rel)
		}
	}
}

func TestResolveRejectsAbsolutePath(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	if _, err := ws.Resolve("/etc/passwd"); err == nil {
		t.Error("absolute path should have been rejected")
	}
}

func TestResolveRejectsEmptyPath(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	if _, err := ws.Resolve(""); err == nil {
		t.Error("empty path should have been rejected")
	}
}

func TestResolveAllowsDotInside(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	path, err := ws.Resolve(".")
	if err != nil {
		t.Fatalf("Resolve(\".\") failed: %v", err)
	}
	if path != ws.Root() {
		t.Errorf("expected root %q, got %q", ws.Root(), path)
	}

	// Dot-dot segments that stay inside are fine.
	path, err = ws.Resolve("a/b/../c.txt")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(ws.Root(), "a", "c.txt"); path != want {
		t.Errorf("expected %q, got %q", want, path)
	}
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	base := t.TempDir()
	outside := filepath.Join(base, "outside")
	if err := os.MkdirAll(outside, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	ws, err := NewWorkspace(filepath.Join(base, "ws"))
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	// A symlink inside the workspace pointing outside it.
	link := filepath.Join(ws.Root(), "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("symlink failed: %v", err)
	}

	if _, err := ws.Resolve("escape/secret.txt"); err == nil {
		t.Error("symlink escape should have been rejected")
	}
}

func TestRelativeTo(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	abs := filepath.Join(ws.Root(), "src", "app.go")
	if rel := ws.RelativeTo(abs); rel != filepath.Join("src", "app.go") {
		t.Errorf("expected relative path, got %q", rel)
	}
}
