package cavebin

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// menuContainer は効果音3件 + BGM 1件のメニュー用コンテナを生成します
func menuContainer(t *testing.T, title Title) []byte {
	t.Helper()
	trailing, err := title.TrailingBlockLength()
	if err != nil {
		t.Fatal(err)
	}
	sfx := int(trailing) / 3
	return buildContainer(t, []testEntry{
		{name: "se_select.wav", data: pattern(sfx, 0x10)},
		{name: "se_ok.wav", data: pattern(sfx, 0x20)},
		{name: "se_cancel.wav", data: pattern(int(trailing)-2*sfx, 0x30)},
		{name: "title.wav", offset: uint32(MenuHeaderLength + trailing), data: pattern(0x800, 0x40)},
	})
}

func TestPatcher_PatchStandard(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"空", 0},
		{"1バイト", 1},
		{"1MB", 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x400, 1)}})
			path := writeContainer(t, "ma05.bin", orig)
			replacement := pattern(tt.size, 0x80)

			p := NewPatcher(nil, nil)
			res, err := p.Patch(path, bytes.NewReader(replacement), StandardTarget())
			if err != nil {
				t.Fatalf("Patch failed: %v", err)
			}

			want := append(append([]byte{}, orig[:0x138]...), replacement...)
			got := readFile(t, path)
			if !bytes.Equal(got, want) {
				t.Fatalf("patched file differs (len %d, want %d)", len(got), len(want))
			}

			if res.PreservedLength != 0x138 {
				t.Errorf("PreservedLength = 0x%X, want 0x138", res.PreservedLength)
			}
			if res.BytesWritten != int64(tt.size) {
				t.Errorf("BytesWritten = %d, want %d", res.BytesWritten, tt.size)
			}
			if res.NewLength != int64(len(want)) {
				t.Errorf("NewLength = %d, want %d", res.NewLength, len(want))
			}
			if res.Kind != EntryStandard || res.EntryIndex != 0 {
				t.Errorf("Kind/EntryIndex = %v/%d, want standard/0", res.Kind, res.EntryIndex)
			}
			if res.OffsetMismatch {
				t.Error("OffsetMismatch should be false")
			}

			// 一時ファイルが残っていない
			entries, err := os.ReadDir(filepath.Dir(path))
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, want 1", len(entries))
			}
		})
	}
}

func TestPatcher_PatchMenu(t *testing.T) {
	for _, title := range Titles() {
		t.Run(string(title), func(t *testing.T) {
			orig := menuContainer(t, title)
			path := writeContainer(t, "menu.bin", orig)
			replacement := pattern(0x1000, 0x99)

			p := NewPatcher(nil, nil)
			res, err := p.Patch(path, bytes.NewReader(replacement), MenuTarget(title))
			if err != nil {
				t.Fatalf("Patch failed: %v", err)
			}

			trailing, _ := title.TrailingBlockLength()
			preserved := MenuHeaderLength + trailing
			if res.PreservedLength != preserved {
				t.Errorf("PreservedLength = 0x%X, want 0x%X", res.PreservedLength, preserved)
			}
			if res.EntryIndex != 3 {
				t.Errorf("EntryIndex = %d, want 3", res.EntryIndex)
			}

			want := append(append([]byte{}, orig[:preserved]...), replacement...)
			if got := readFile(t, path); !bytes.Equal(got, want) {
				t.Errorf("patched file differs (len %d, want %d)", len(got), len(want))
			}
		})
	}
}

func TestPatcher_PatchAutoKind(t *testing.T) {
	orig := menuContainer(t, TitleMushihimesama)
	path := writeContainer(t, "menu.bin", orig)

	p := NewPatcher(nil, nil)
	res, err := p.Patch(path, bytes.NewReader([]byte("RIFF")), AutoTarget(TitleMushihimesama))
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if res.Kind != EntryMenu {
		t.Errorf("Kind = %v, want menu", res.Kind)
	}

	std := buildContainer(t, []testEntry{{name: "ma01.wav", data: pattern(0x10, 0)}})
	stdPath := writeContainer(t, "ma01.bin", std)
	res, err = p.Patch(stdPath, bytes.NewReader([]byte("RIFF")), AutoTarget(""))
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if res.Kind != EntryStandard {
		t.Errorf("Kind = %v, want standard", res.Kind)
	}
}

func TestPatcher_NotLastEntry(t *testing.T) {
	orig := menuContainer(t, TitleMushihimesama)
	path := writeContainer(t, "menu.bin", orig)

	p := NewPatcher(&countingBackuper{}, nil)
	target := MenuTarget(TitleMushihimesama)
	target.Index = 1

	_, err := p.Patch(path, bytes.NewReader(pattern(0x100, 0)), target)
	var pe *UnsupportedEntryPositionError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *UnsupportedEntryPositionError", err)
	}
	if pe.Index != 1 {
		t.Errorf("Index = %d, want 1", pe.Index)
	}
	if got := readFile(t, path); !bytes.Equal(got, orig) {
		t.Error("container should be unchanged")
	}
	if b := p.Backup.(*countingBackuper); b.calls != 0 {
		t.Errorf("backup called %d times, want 0", b.calls)
	}
}

func TestPatcher_TableLargerThanPrefix(t *testing.T) {
	orig := buildContainer(t, []testEntry{
		{name: "a.wav", data: pattern(0x20, 0)},
		{name: "b.wav", data: pattern(0x20, 1)},
	})
	path := writeContainer(t, "two.bin", orig)

	_, err := NewPatcher(nil, nil).Patch(path, bytes.NewReader(nil), StandardTarget())
	var pe *UnsupportedEntryPositionError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *UnsupportedEntryPositionError", err)
	}
	if got := readFile(t, path); !bytes.Equal(got, orig) {
		t.Error("container should be unchanged")
	}
}

func TestPatcher_Truncated(t *testing.T) {
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: nil}})[:0x100]
	path := writeContainer(t, "short.bin", orig)

	_, err := NewPatcher(nil, nil).Patch(path, bytes.NewReader(pattern(10, 0)), StandardTarget())
	var te *TruncatedContainerError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TruncatedContainerError", err)
	}
	if te.Size != 0x100 || te.Required != 0x138 {
		t.Errorf("Size/Required = 0x%X/0x%X", te.Size, te.Required)
	}
	if got := readFile(t, path); !bytes.Equal(got, orig) {
		t.Error("container should be unchanged")
	}
}

func TestPatcher_BadMagic(t *testing.T) {
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x10, 0)}})
	copy(orig, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	path := writeContainer(t, "bad.bin", orig)

	_, err := NewPatcher(nil, nil).Patch(path, bytes.NewReader(nil), StandardTarget())
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("error = %v, want ErrBadMagic", err)
	}
}

func TestPatcher_UnsupportedTitle(t *testing.T) {
	orig := menuContainer(t, TitleMushihimesama)
	path := writeContainer(t, "menu.bin", orig)

	_, err := NewPatcher(nil, nil).Patch(path, bytes.NewReader(nil), MenuTarget("deathsmiles"))
	var ue *UnsupportedTitleError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnsupportedTitleError", err)
	}
}

func TestPatcher_DryRun(t *testing.T) {
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x40, 0)}})
	path := writeContainer(t, "ma05.bin", orig)

	backup := &countingBackuper{}
	p := NewPatcher(backup, nil)
	p.DryRun = true

	res, err := p.Patch(path, bytes.NewReader(pattern(0x55, 0)), StandardTarget())
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if !res.DryRun || res.BytesWritten != 0x55 || res.NewLength != 0x138+0x55 {
		t.Errorf("unexpected result: %+v", res)
	}
	if got := readFile(t, path); !bytes.Equal(got, orig) {
		t.Error("container should be unchanged in dry run")
	}
	if backup.calls != 0 {
		t.Errorf("backup called %d times in dry run", backup.calls)
	}
}

func TestPatcher_BackupOnce(t *testing.T) {
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x40, 0)}})
	path := writeContainer(t, "ma05.bin", orig)

	backup := &countingBackuper{}
	p := NewPatcher(backup, nil)

	for i := 0; i < 3; i++ {
		res, err := p.Patch(path, bytes.NewReader(pattern(0x10*(i+1), byte(i))), StandardTarget())
		if err != nil {
			t.Fatalf("Patch #%d failed: %v", i, err)
		}
		if res.BackedUp != (i == 0) {
			t.Errorf("Patch #%d BackedUp = %v", i, res.BackedUp)
		}
	}
	if len(backup.created) != 1 {
		t.Errorf("backups created = %d, want 1", len(backup.created))
	}
}

func TestPatcher_BackupError(t *testing.T) {
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x40, 0)}})
	path := writeContainer(t, "ma05.bin", orig)

	wantErr := errors.New("disk full")
	p := NewPatcher(&countingBackuper{err: wantErr}, nil)
	_, err := p.Patch(path, bytes.NewReader(pattern(0x10, 0)), StandardTarget())
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if got := readFile(t, path); !bytes.Equal(got, orig) {
		t.Error("container should be unchanged when backup fails")
	}
}

func TestPatcher_KeepsPermission(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on windows")
	}
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x40, 0)}})
	path := writeContainer(t, "ma05.bin", orig)
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPatcher(nil, nil).Patch(path, bytes.NewReader(nil), StandardTarget()); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestPatcher_Logger(t *testing.T) {
	orig := buildContainer(t, []testEntry{{name: "ma05.wav", data: pattern(0x40, 0)}})
	path := writeContainer(t, "ma05.bin", orig)

	logger := &bufLogger{}
	if _, err := NewPatcher(nil, logger).Patch(path, bytes.NewReader(nil), StandardTarget()); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if !bytes.Contains(logger.buf.Bytes(), []byte("ma05.bin")) {
		t.Errorf("logger output = %q", logger.buf.String())
	}
}
