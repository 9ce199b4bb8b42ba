package config

import (
	"flag"
	"fmt"
	"os"
)

// DefaultCheckLog はスキャン結果を追記するログファイル
const DefaultCheckLog = "CAVE_CHECK.log"

// CheckConfig はcavecheckコマンドの設定を保持します
type CheckConfig struct {
	Root        string
	LogPath     string
	List        bool
	Extract     bool
	OutputDir   string
	Workers     int
	DebugMode   bool
	ShowVersion bool
	Files       []string // 直接指定されたコンテナ
}

// ParseCheckFlags はcavecheckのコマンドライン引数を解析します
func ParseCheckFlags() *CheckConfig {
	config := &CheckConfig{}

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s: [options] [file.bin ...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&config.Root, "root", ".", "game install directory containing res*/DISKDATA")
	flag.StringVar(&config.LogPath, "log", DefaultCheckLog, "log file the reports are appended to")
	flag.BoolVar(&config.List, "l", false, "list entries of each container")
	flag.BoolVar(&config.Extract, "x", false, "extract entry payloads")
	flag.StringVar(&config.OutputDir, "o", ".", "output directory for extracted payloads")
	flag.IntVar(&config.Workers, "w", 4, "number of parallel scan workers")
	flag.BoolVar(&config.DebugMode, "d", false, "debug mode (show more info)")
	flag.BoolVar(&config.ShowVersion, "v", false, "show version information")

	flag.Parse()
	config.Files = flag.Args()

	return config
}
