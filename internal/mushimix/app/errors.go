package app

import "errors"

var (
	// ErrOpenLog はスキャンログを開けない場合のエラー
	ErrOpenLog = errors.New("スキャンログを開けませんでした")

	// ErrExtract はエントリの抽出に失敗した場合のエラー
	ErrExtract = errors.New("エントリの抽出に失敗しました")

	// ErrNotContainer は差し替え先がディレクトリの場合のエラー
	ErrNotContainer = errors.New("差し替え先がファイルではありません")

	// ErrNoContainers はスキャン対象のコンテナが見つからない場合のエラー
	ErrNoContainers = errors.New("スキャン対象のコンテナが見つかりません")
)
