// Package models はmushimixコマンドで使用するデータモデルを定義します
package models

// Track は差し替え1件分の入力と出力先を表します
type Track struct {
	Name    string // 拡張子を除いたファイル名
	WavPath string // 差し替え用の .wav
	BinPath string // ゲーム内の .bin
}

// Outcome は1件分の処理結果
type Outcome struct {
	Target  string
	Action  string // patched / restored / skipped / failed
	Detail  string
	Warning string
	Err     error
}

// Summary は実行全体の集計
type Summary struct {
	Outcomes []Outcome
}

// Add は結果を追加します
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Succeeded は成功件数を返します
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed は失敗した結果を返します
func (s *Summary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
