package cavebin

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Source は差し替えデータを開く関数
type Source func() (io.ReadCloser, error)

// BytesSource はメモリ上のデータを差し替えデータにします
func BytesSource(data []byte) Source {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// FileSource はファイルを差し替えデータにします
func FileSource(path string) Source {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// Job はバッチ処理の1件分
type Job struct {
	Path   string // 差し替えるコンテナ
	Source Source
	Target Target
}

// BatchResult はバッチ処理の1件分の結果
type BatchResult struct {
	Job    Job
	Result *PatchResult
	Err    error
}

// PatchAll は複数のコンテナを順に差し替えます
//
// 1件の失敗で処理を止めず、全件の結果を入力順に返します。
func (p *Patcher) PatchAll(jobs []Job) []BatchResult {
	results := make([]BatchResult, 0, len(jobs))
	for _, job := range jobs {
		res, err := p.patchJob(job)
		results = append(results, BatchResult{Job: job, Result: res, Err: err})
	}
	return results
}

func (p *Patcher) patchJob(job Job) (*PatchResult, error) {
	if job.Source == nil {
		return nil, fmt.Errorf("%s: 差し替えデータが指定されていません", job.Path)
	}
	r, err := job.Source()
	if err != nil {
		return nil, fmt.Errorf("差し替えデータを開けませんでした: %w", err)
	}
	defer r.Close()
	return p.Patch(job.Path, r, job.Target)
}

// Failed は失敗した結果のみを返します
func Failed(results []BatchResult) []BatchResult {
	var failed []BatchResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
