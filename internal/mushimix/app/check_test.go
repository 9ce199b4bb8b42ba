package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiroemons/go-mushimix/internal/mushimix/config"
	apperrors "github.com/shiroemons/go-mushimix/internal/mushimix/errors"
)

func TestChecker_Run(t *testing.T) {
	root := t.TempDir()
	diskData := filepath.Join(root, "res", "DISKDATA")
	good := filepath.Join(diskData, "B", "bgm01.bin")
	bad := filepath.Join(diskData, "B", "bgm02.bin")
	other := filepath.Join(diskData, "A", "se.bin")

	writeFile(t, good, standardContainer(t, "bgm01.wav", []byte("audio-1")))
	writeFile(t, bad, []byte("not a container at all, just text padding......"))
	writeFile(t, other, standardContainer(t, "se.wav", []byte("audio-2")))
	writeFile(t, good+".backup", []byte("ignored"))

	logPath := filepath.Join(root, "CAVE_CHECK.log")
	outDir := filepath.Join(root, "extracted")
	cfg := &config.CheckConfig{
		Root:      root,
		LogPath:   logPath,
		List:      true,
		Extract:   true,
		OutputDir: outDir,
		Workers:   2,
	}

	var stdout, stderr bytes.Buffer
	checker := NewChecker(cfg, CheckOptions{Stdout: &stdout, Stderr: &stderr})

	err := checker.Run(context.Background())
	if !errors.Is(err, apperrors.ErrPartialFailure) {
		t.Fatalf("Expected ErrPartialFailure, got %v", err)
	}

	log := string(readFile(t, logPath))
	for _, want := range []string{
		"File :" + other,
		"File :" + good,
		"IFD_FILE: bgm01.wav",
		"File :" + bad,
		"error:",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("log should contain %q:\n%s", want, log)
		}
	}
	if strings.Contains(log, ".backup") {
		t.Error("backups must not be scanned")
	}
	// 入力順（A → B）で記録される
	if strings.Index(log, other) > strings.Index(log, good) {
		t.Error("reports should follow the directory order")
	}

	if got := string(readFile(t, filepath.Join(outDir, "bgm01", EntryFileName(0, "bgm01.wav")))); got != "audio-1" {
		t.Errorf("unexpected extracted payload: %q", got)
	}
	if !strings.Contains(stdout.String(), "bgm01.wav *") {
		t.Errorf("list output should mark the last entry: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "scan "+bad+": ") {
		t.Errorf("stderr should name the failed operation and container: %q", stderr.String())
	}

	// 2回目は追記される
	if err := NewChecker(&config.CheckConfig{LogPath: logPath, Files: []string{good}}, CheckOptions{Stdout: &stdout, Stderr: &stderr}).Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if n := strings.Count(string(readFile(t, logPath)), "File :"+good); n != 2 {
		t.Errorf("Expected 2 reports for %s, got %d", good, n)
	}
}

func TestChecker_NoContainers(t *testing.T) {
	cfg := &config.CheckConfig{Root: t.TempDir(), LogPath: filepath.Join(t.TempDir(), "log")}
	var out bytes.Buffer
	err := NewChecker(cfg, CheckOptions{Stdout: &out, Stderr: &out}).Run(context.Background())
	if !errors.Is(err, ErrNoContainers) {
		t.Fatalf("Expected ErrNoContainers, got %v", err)
	}
}

func TestEntryFileName(t *testing.T) {
	tests := []struct {
		index int
		name  string
		want  string
	}{
		{0, "bgm01.wav", "00_bgm01.wav"},
		{3, `sound\bgm\stage1.wav`, "03_stage1.wav"},
		{1, "dir/se.wav", "01_se.wav"},
		{2, "", "02_entry"},
		{4, `a:b?.wav`, "04_a_b_.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := EntryFileName(tt.index, tt.name); got != tt.want {
				t.Errorf("EntryFileName(%d, %q) = %q, want %q", tt.index, tt.name, got, tt.want)
			}
		})
	}
}
