package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "no arguments",
			args: []string{"embedh"},
		},
		{
			name: "one argument",
			args: []string{"embedh", "index.html"},
		},
		{
			name: "three arguments",
			args: []string{"embedh", "index.html", "out.h", "extra"},
		},
		{
			name: "manifest with positional arguments",
			args: []string{"embedh", "-manifest", "embedh.yaml", "index.html", "out.h"},
		},
		{
			name: "stdout with watch",
			args: []string{"embedh", "-stdout", "-watch", "index.html", "out.h"},
		},
		{
			name: "stdout with manifest",
			args: []string{"embedh", "-stdout", "-manifest", "embedh.yaml"},
		},
		{
			name: "unknown flag",
			args: []string{"embedh", "-frobnicate", "index.html", "out.h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := new(bytes.Buffer)
			stderr := new(bytes.Buffer)
			if code := run(stdout, stderr, tt.args); code != 1 {
				t.Errorf("expected exit code 1, got %d", code)
			}
			if !strings.HasPrefix(stderr.String(), "usage: embedh") {
				t.Errorf("expected a usage message on stderr, got %q", stderr.String())
			}
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("help prints usage and exits zero", func(t *testing.T) {
		stdout := new(bytes.Buffer)
		if code := run(stdout, new(bytes.Buffer), []string{"embedh", "-help"}); code != 0 {
			t.Errorf("expected exit code 0, got %d", code)
		}
		if !strings.HasPrefix(stdout.String(), "usage: embedh") {
			t.Errorf("expected usage on stdout, got %q", stdout.String())
		}
	})

	t.Run("version exits zero", func(t *testing.T) {
		stdout := new(bytes.Buffer)
		if code := run(stdout, new(bytes.Buffer), []string{"embedh", "-version"}); code != 0 {
			t.Errorf("expected exit code 0, got %d", code)
		}
		if strings.TrimSpace(stdout.String()) == "" {
			t.Error("expected a version on stdout")
		}
	})

	t.Run("two arguments embed the asset", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "index.html")
		dst := filepath.Join(dir, "web_bundle.h")
		if err := os.WriteFile(src, []byte("<html>\n"), 0644); err != nil {
			t.Fatal(err)
		}

		stdout := new(bytes.Buffer)
		stderr := new(bytes.Buffer)
		if code := run(stdout, stderr, []string{"embedh", src, dst}); code != 0 {
			t.Fatalf("expected exit code 0, got %d; stderr: %s", code, stderr.String())
		}
		if !strings.HasPrefix(stdout.String(), "[embed] ") {
			t.Errorf("expected a progress line on stdout, got %q", stdout.String())
		}
		if _, err := os.Stat(dst); err != nil {
			t.Errorf("expected the destination to exist: %v", err)
		}
	})

	t.Run("read failure exits nonzero", func(t *testing.T) {
		dir := t.TempDir()
		stderr := new(bytes.Buffer)
		args := []string{"embedh", filepath.Join(dir, "nope.html"), filepath.Join(dir, "out.h")}
		if code := run(new(bytes.Buffer), stderr, args); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		if !strings.Contains(stderr.String(), "Command failed") {
			t.Errorf("expected a failure report on stderr, got %q", stderr.String())
		}
	})

	t.Run("stdout flag prints the header instead of writing it", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "index.html")
		dst := filepath.Join(dir, "out.h")
		if err := os.WriteFile(src, []byte("<html>\n"), 0644); err != nil {
			t.Fatal(err)
		}

		stdout := new(bytes.Buffer)
		if code := run(stdout, new(bytes.Buffer), []string{"embedh", "-stdout", src, dst}); code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}
		if !strings.Contains(stdout.String(), "#ifndef OUT_H") {
			t.Errorf("expected the header on stdout, got %q", stdout.String())
		}
		if strings.Contains(stdout.String(), "[embed] ") {
			t.Errorf("expected no progress line in -stdout mode, got %q", stdout.String())
		}
		if _, err := os.Stat(dst); !os.IsNotExist(err) {
			t.Errorf("expected no destination file, stat err = %v", err)
		}
	})
}
