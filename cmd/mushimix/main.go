package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shiroemons/go-mushimix/internal/mushimix/app"
	"github.com/shiroemons/go-mushimix/internal/mushimix/config"
	"github.com/shiroemons/go-mushimix/internal/mushimix/fileutil"
)

func main() {
	// コマンドライン引数の解析
	cfg := config.ParseFlags()

	// バージョン表示の処理
	config.HandleVersion("mushimix", cfg.ShowVersion)

	// 設定ファイルの読み込み（フラグが優先）
	warnings, err := config.Resolve(cfg, fileutil.NewConfigFinder(fileutil.NewOSFileSystem()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "警告: %s\n", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// アプリケーションの実行
	application := app.New(cfg)
	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		stop()
		os.Exit(1)
	}
}
