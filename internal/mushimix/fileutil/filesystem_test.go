package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiroemons/go-mushimix/internal/mushimix/mocks"
)

func TestConfigFinder_Find(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockFileSystem)
		wantFile  string
		wantError bool
		errorMsg  string
	}{
		{
			name: "カレントディレクトリにini",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.AddFile("/current/mushimix.ini", []byte("[paths]"))
			},
			wantFile: "/current/mushimix.ini",
		},
		{
			name: "カレントディレクトリに旧形式",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.AddFile("/current/mushimix.config", []byte("C:\\game"))
			},
			wantFile: "/current/mushimix.config",
		},
		{
			name: "両方ある場合はエラー",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.AddFile("/current/mushimix.ini", []byte("[paths]"))
				fs.AddFile("/current/mushimix.config", []byte("C:\\game"))
			},
			wantError: true,
			errorMsg:  "mushimix.ini, mushimix.config",
		},
		{
			name: "実行ファイルのディレクトリ",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.ExecPath = "/exec/mushimix"
				fs.Dirs["/current"] = true
				fs.AddFile("/exec/mushimix.ini", []byte("[paths]"))
			},
			wantFile: "/exec/mushimix.ini",
		},
		{
			name: "見つからない",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.ExecPath = "/current/mushimix"
			},
			wantFile: "",
		},
		{
			name: "Getwdのエラー",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.Error = errors.New("getwd failed")
			},
			wantError: true,
			errorMsg:  "getwd failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewMockFileSystem()
			tt.setupMock(fs)

			got, err := NewConfigFinder(fs).Find()
			if tt.wantError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %v", tt.errorMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find failed: %v", err)
			}
			if got != filepath.FromSlash(tt.wantFile) && got != tt.wantFile {
				t.Errorf("Expected %q, got %q", tt.wantFile, got)
			}
		})
	}
}

func TestOSFileSystem(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()

	sub := filepath.Join(dir, "a", "b")
	if err := fs.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	file := filepath.Join(dir, "a", "x.bin")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if !fs.FileExists(file) || !fs.FileExists(sub) {
		t.Error("FileExists should report both the file and the directory")
	}
	if fs.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists should be false for missing paths")
	}

	info, err := fs.Stat(sub)
	if err != nil || !info.IsDir() || info.Name() != "b" {
		t.Errorf("unexpected Stat result: %v, %v", info, err)
	}

	entries, err := fs.ReadDir(filepath.Join(dir, "a"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}

	if _, err := fs.Getwd(); err != nil {
		t.Errorf("Getwd failed: %v", err)
	}
	if _, err := fs.Executable(); err != nil {
		t.Errorf("Executable failed: %v", err)
	}
}
