package fileutil

import "errors"

var (
	// ErrCreateDirectory は出力先ディレクトリの作成に失敗した場合のエラー
	ErrCreateDirectory = errors.New("出力先ディレクトリの作成に失敗しました")

	// ErrCreateBackup はバックアップの作成に失敗した場合のエラー
	ErrCreateBackup = errors.New("バックアップの作成に失敗しました")

	// ErrNoBackup は復元に使うバックアップが存在しない場合のエラー
	ErrNoBackup = errors.New("バックアップが見つかりません")

	// ErrRestore は復元に失敗した場合のエラー
	ErrRestore = errors.New("バックアップからの復元に失敗しました")

	// ErrWriteLog はログの書き込みに失敗した場合のエラー
	ErrWriteLog = errors.New("ログの書き込みに失敗しました")

	// ErrReadDirectory はディレクトリ内のファイル一覧を取得できない場合のエラー
	ErrReadDirectory = errors.New("ディレクトリ内のファイル一覧を取得できませんでした")

	// ErrMultipleConfigFiles は複数の設定ファイルが見つかった場合のエラー
	ErrMultipleConfigFiles = errors.New("複数の設定ファイルが見つかりました。-config フラグで使用するファイルを指定してください")
)
