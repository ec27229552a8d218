package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline run %s":        "パイプライン実行 %s を開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Pipeline failed: %s":             "パイプラインが失敗しました: %s",
		"Buffer %s: capacity %d":          "バッファ %s: 容量 %d",
		"Output %s received %d frames":    "出力 %s が %d フレームを受信しました",
		"Failed to save config: %s":       "設定の保存に失敗しました: %s",

		// Capture stage
		"Capture started: %dx%d source, %dx%d crop":   "キャプチャ開始: ソース %dx%d, 切り抜き %dx%d",
		"Writing frame %d":                            "フレーム %d を書き込み中",
		"Written frame %d":                            "フレーム %d を書き込みました",
		"Skipping frame %d: crop region out of bounds": "フレーム %d をスキップ: 切り抜き範囲が範囲外です",
		"Cursor moved to (%d, %d)":                    "カーソルを (%d, %d) に移動しました",
		"Input stream complete: %d frames, %d skipped": "入力ストリーム完了: %d フレーム, %d スキップ",
		"Could not read frame: %s":                    "フレームを読み込めませんでした: %s",
		"Failed to save preview %d: %s":               "プレビュー %d の保存に失敗しました: %s",

		// Transform stage
		"Transform started with %d outputs":     "%d 個の出力で変換を開始しました",
		"Received frame %d":                     "フレーム %d を受信しました",
		"Processed frame %d":                    "フレーム %d を処理しました",
		"Frame %d delivered to %d/%d outputs":   "フレーム %d を %d/%d 個の出力に配信しました",
		"Transform complete: %d frames":         "変換完了: %d フレーム",
		"Transform failed on frame %d: %s":      "フレーム %d の変換に失敗しました: %s",

		// Drain stage
		"Drain complete: %d frames": "排出完了: %d フレーム",
		"Sink rejected frame %d: %s": "シンクがフレーム %d を拒否しました: %s",

		// Cancellation
		"Cancelled, marking outputs finished": "キャンセルされました。出力を完了としてマークします",
	})
}
