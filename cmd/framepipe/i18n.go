package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":   "入力",
		"Model":   "モデル",
		"Buffers": "バッファ",
		"Capture": "キャプチャ",
		"Output":  "出力",
		"Debug":   "デバッグ",
		"Logging": "ログ",

		// Root command
		"Run frames through a bounded capture, transform and fan-out pipeline": "有界バッファで結ばれたキャプチャ・変換・分配パイプラインにフレームを流す",

		// Run command
		"Run the pipeline": "パイプラインを実行",
		"Capture frames from an image directory or a test pattern, crop them around a cursor, apply a model and fan the results out to every output.": "画像ディレクトリまたはテストパターンからフレームを取得し、カーソル周辺を切り抜き、モデルを適用して全ての出力に配信します。",

		// Models and version commands
		"List available models":             "利用可能なモデルを一覧表示",
		"Show version information":          "バージョン情報を表示",
		"Display the version of framepipe.": "framepipeのバージョンを表示します。",
		"framepipe version %s":              "framepipe バージョン %s",

		// Input flags
		"YAML configuration file":                             "YAML設定ファイル",
		"Directory of images to read (default: test pattern)": "読み込む画像ディレクトリ（デフォルト: テストパターン）",
		"Number of test pattern frames":                       "テストパターンのフレーム数",
		"Test pattern size (WxH)":                             "テストパターンのサイズ（幅x高さ）",

		// Model flags
		"Model to apply (see the models command)":  "適用するモデル（models コマンドを参照）",
		"Resize target for the resize model (WxH)": "resize モデルの出力サイズ（幅x高さ）",
		"Simulated inference time per frame":       "フレームごとの疑似推論時間",

		// Buffer flags
		"Buffer preset (realtime, balanced, throughput)":    "バッファプリセット（realtime, balanced, throughput）",
		"Capacity of the buffer between capture and model": "キャプチャとモデル間のバッファ容量",
		"Default capacity of each output buffer":           "各出力バッファのデフォルト容量",
		"Wait between checks of empty or full buffers":     "空または満杯のバッファを再確認するまでの待ち時間",

		// Capture flags
		"Crop window size (WxH)":                              "切り抜き範囲のサイズ（幅x高さ）",
		"Initial crop centre (X,Y)":                           "切り抜き中心の初期位置（X,Y）",
		"Read cursor moves as \"X Y\" lines from stdin":       "標準入力の \"X Y\" 行でカーソルを移動",
		"Source read rate (0 = as fast as possible)":          "ソースの読み込みレート（0 = 最速）",
		"Stop after this many source frames (0 = unlimited)": "このフレーム数で停止（0 = 無制限）",

		// Output flags
		"Output as NAME[=DIR][:CAPACITY], repeatable; without DIR frames are discarded": "出力 NAME[=DIR][:CAPACITY]（複数指定可、DIR なしは破棄）",
		"Output execution summary to file (Markdown format)":                             "実行サマリーをファイルに出力（Markdown形式）",

		// Debug flags
		"Enable debug output":                     "デバッグ出力を有効化",
		"Directory for debug output":              "デバッグ出力のディレクトリ",
		"Crop rectangle colour in previews (hex)": "プレビューの切り抜き枠の色（16進数）",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Processing %s with model %s":   "%s をモデル %s で処理中",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Ignoring cursor input %q":      "カーソル入力 %q を無視します",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Pipeline Summary":   "パイプライン概要",
		"Run":                "実行",
		"Run ID":             "実行ID",
		"Status":             "状態",
		"Completed":          "完了",
		"Failed":             "失敗",
		"Duration":           "所要時間",
		"Settings":           "設定",
		"Item":               "項目",
		"Value":              "値",
		"Source":             "ソース",
		"Frame Size":         "フレームサイズ",
		"Crop Size":          "切り抜きサイズ",
		"Preset":             "プリセット",
		"Poll Interval":      "ポーリング間隔",
		"Stages":             "ステージ",
		"Frames Read":        "読み込んだフレーム",
		"Frames Produced":    "生成したフレーム",
		"Frames Skipped":     "スキップしたフレーム",
		"Payload":            "データ量",
		"Frames Transformed": "変換したフレーム",
		"Delivery Retries":   "配信リトライ",
		"Buffer":             "バッファ",
		"Capacity":           "容量",
		"Peak":               "最大使用数",
		"Enqueued":           "投入数",
		"Dequeued":           "取出数",
		"Outputs":            "出力一覧",
		"Frames":             "フレーム数",
		"Generated by":       "生成:",
	})
}
