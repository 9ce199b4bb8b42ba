// Package config はmushimix/cavecheckコマンドの設定管理を行います
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/ini.v1"

	"github.com/shiroemons/go-mushimix/internal/mushimix/fileutil"
	"github.com/shiroemons/go-mushimix/internal/mushimix/interfaces"
	"github.com/shiroemons/go-mushimix/pkg/cavebin"
)

const Version = "0.1.0"

// 既定のファイル名とディレクトリ
const (
	DefaultConfigFile = "mushimix.ini"
	LegacyConfigFile  = "mushimix.config"
	DefaultInDir      = "in"
	DefaultOutDir     = "out"

	expectedGameDirSuffix = "res/DISKDATA/B"
)

var (
	// ErrNoGameDir はゲームのBGMディレクトリが設定されていない場合のエラー
	ErrNoGameDir = errors.New("ゲームのBGMディレクトリが設定されていません")

	// ErrReadConfig は設定ファイルの読み込みに失敗した場合のエラー
	ErrReadConfig = errors.New("設定ファイルの読み込みに失敗しました")
)

// Config はアプリケーションの設定を保持します
type Config struct {
	GameDir     string
	InDir       string
	OutDir      string
	Title       string
	ConfigPath  string
	Restore     bool
	DebugMode   bool
	DryRun      bool
	ShowVersion bool
}

// ParseFlags はコマンドライン引数を解析して設定を返します
func ParseFlags() *Config {
	config := &Config{}

	// カスタムUsage関数を設定（ダブルハイフン表示）
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintln(out, "  --game-dir string")
		fmt.Fprintln(out, "    \tpath to the game's OST directory (e.g. .../res/DISKDATA/B/)")
		fmt.Fprintln(out, "  -g string\tpath to the game's OST directory (shorthand)")
		fmt.Fprintln(out, "  --in string")
		fmt.Fprintln(out, "    \tdirectory with replacement .wav files (default \"in\")")
		fmt.Fprintln(out, "  --out string")
		fmt.Fprintln(out, "    \tdirectory for backups and the change log (default \"out\")")
		fmt.Fprintln(out, "  --title string")
		fmt.Fprintln(out, "    \tgame title owning the containers (mushihimesama, futari)")
		fmt.Fprintln(out, "  --config string")
		fmt.Fprintln(out, "    \tpath to mushimix.ini or legacy mushimix.config")
		fmt.Fprintln(out, "  --restore")
		fmt.Fprintln(out, "    \trestore containers from backups")
		fmt.Fprintln(out, "  --dry-run")
		fmt.Fprintln(out, "    \tvalidate containers without writing")
		fmt.Fprintln(out, "  -n\tvalidate containers without writing (shorthand)")
		fmt.Fprintln(out, "  --debug")
		fmt.Fprintln(out, "    \tenable debug output")
		fmt.Fprintln(out, "  -d\tenable debug output (shorthand)")
		fmt.Fprintln(out, "  --version")
		fmt.Fprintln(out, "    \tshow version information")
		fmt.Fprintln(out, "  -v\tshow version information (shorthand)")
	}

	// ディレクトリ
	flag.StringVar(&config.GameDir, "game-dir", "", "path to the game's OST directory")
	flag.StringVar(&config.GameDir, "g", "", "path to the game's OST directory (shorthand)")
	flag.StringVar(&config.InDir, "in", "", "directory with replacement .wav files")
	flag.StringVar(&config.InDir, "i", "", "directory with replacement .wav files (shorthand)")
	flag.StringVar(&config.OutDir, "out", "", "directory for backups and the change log")
	flag.StringVar(&config.OutDir, "o", "", "directory for backups and the change log (shorthand)")

	// タイトル
	flag.StringVar(&config.Title, "title", "", "game title owning the containers")
	flag.StringVar(&config.Title, "t", "", "game title owning the containers (shorthand)")

	// 設定ファイル
	flag.StringVar(&config.ConfigPath, "config", "", "path to mushimix.ini or legacy mushimix.config")
	flag.StringVar(&config.ConfigPath, "c", "", "path to mushimix.ini or legacy mushimix.config (shorthand)")

	// 復元モード
	flag.BoolVar(&config.Restore, "restore", false, "restore containers from backups")
	flag.BoolVar(&config.Restore, "r", false, "restore containers from backups (shorthand)")

	// ドライランモード
	flag.BoolVar(&config.DryRun, "dry-run", false, "validate containers without writing")
	flag.BoolVar(&config.DryRun, "n", false, "validate containers without writing (shorthand)")

	// デバッグモード
	flag.BoolVar(&config.DebugMode, "debug", false, "enable debug output")
	flag.BoolVar(&config.DebugMode, "d", false, "enable debug output (shorthand)")

	// バージョン表示
	flag.BoolVar(&config.ShowVersion, "version", false, "show version information")
	flag.BoolVar(&config.ShowVersion, "v", false, "show version information (shorthand)")

	flag.Parse()

	return config
}

// Load は設定ファイルを読み込み、フラグで未指定の項目を補います
//
// 拡張子が .ini なら ini 形式、それ以外は1行目にパスを書く旧形式として読み込みます。
func Load(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return LoadINI(cfg, path)
	}

	gameDir, err := LoadLegacy(path)
	if err != nil {
		return err
	}
	if cfg.GameDir == "" {
		cfg.GameDir = gameDir
	}
	return nil
}

// LoadINI はini形式の設定を読み込みます
//
//	[paths]
//	game_dir = C:\...\Mushihimesama\res\DISKDATA\B\
//	in_dir   = in
//	out_dir  = out
//	[game]
//	title = mushihimesama
func LoadINI(cfg *Config, source any) error {
	// Windowsのパスは末尾が \ になるため行継続として扱わない
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreContinuation: true}, source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	paths := file.Section("paths")
	setIfEmpty(&cfg.GameDir, paths.Key("game_dir").String())
	setIfEmpty(&cfg.InDir, paths.Key("in_dir").String())
	setIfEmpty(&cfg.OutDir, paths.Key("out_dir").String())
	setIfEmpty(&cfg.Title, file.Section("game").Key("title").String())
	return nil
}

// LoadLegacy は旧形式の mushimix.config から1行目のパスを読み込みます
func LoadLegacy(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadConfig, err)
		}
		return "", ErrNoGameDir
	}

	line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
	if line == "" || strings.HasPrefix(line, "#") {
		return "", ErrNoGameDir
	}

	// メモ帳で保存された日本語パス（Shift-JIS）に対応
	if !utf8.ValidString(line) {
		decoded, err := fileutil.FromShiftJIS(line)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadConfig, err)
		}
		line = decoded
	}
	return line, nil
}

// Resolve は設定ファイルの読み込みから検証までをまとめて行い、警告を返します
//
// --config が未指定の場合は finder で設定ファイルを探します。
func Resolve(cfg *Config, finder interfaces.ConfigFinder) ([]string, error) {
	path := cfg.ConfigPath
	if path == "" && finder != nil {
		found, err := finder.Find()
		if err != nil {
			return nil, err
		}
		path = found
	}
	if err := Load(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

// ApplyDefaults は未設定の項目に既定値を設定します
func (c *Config) ApplyDefaults() {
	setIfEmpty(&c.InDir, DefaultInDir)
	setIfEmpty(&c.OutDir, DefaultOutDir)
}

// Validate は設定を検証し、致命的でない警告を返します
func (c *Config) Validate() ([]string, error) {
	if c.GameDir == "" {
		return nil, ErrNoGameDir
	}
	if c.Title != "" {
		if _, err := cavebin.ParseTitle(c.Title); err != nil {
			return nil, err
		}
	}

	var warnings []string
	dir := filepath.ToSlash(filepath.Clean(strings.ReplaceAll(c.GameDir, `\`, "/")))
	if !strings.HasSuffix(dir, expectedGameDirSuffix) {
		warnings = append(warnings, fmt.Sprintf("ゲームのBGMディレクトリが想定と異なります (%s)。誤ったファイルを上書きする可能性があります", c.GameDir))
	}
	return warnings, nil
}

// HandleVersion はバージョン表示を処理します
func HandleVersion(name string, showVersion bool) {
	if showVersion {
		fmt.Printf("%s version %s\n", name, Version)
		os.Exit(0)
	}
}

// DebugLogger はデバッグ出力を管理します
type DebugLogger struct {
	enabled bool
}

// NewDebugLogger は新しいDebugLoggerを作成します
func NewDebugLogger(enabled bool) *DebugLogger {
	return &DebugLogger{enabled: enabled}
}

// Printf はデバッグモードが有効な場合のみメッセージを表示します
func (d *DebugLogger) Printf(format string, a ...any) {
	if d.enabled {
		fmt.Printf(format, a...)
	}
}
