package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func vocabItem(japanese, reading, romaji, chinese string) map[string]any {
	return map[string]any{
		"japanese": japanese,
		"reading":  reading,
		"romaji":   romaji,
		"chinese":  chinese,
	}
}

// wellFormedUnit satisfies every schema rule and carries all six section types.
func wellFormedUnit() map[string]any {
	return map[string]any{
		"id":            "unit1",
		"title":         "あいさつ",
		"intro":         "基本的なあいさつを学びます。",
		"estimatedTime": "20分",
		"sections": []any{
			map[string]any{
				"type":  "vocab",
				"title": "単語",
				"items": []any{
					vocabItem("おはよう", "おはよう", "ohayou", "早上好"),
					map[string]any{
						"japanese":       "こんばんは",
						"reading":        "こんばんは",
						"romaji":         "konbanwa",
						"chinese":        "晚上好",
						"example":        "先生、こんばんは。",
						"exampleChinese": "老师，晚上好。",
					},
				},
			},
			map[string]any{
				"type":  "dialogue",
				"title": "会話",
				"scene": "朝の教室で",
				"lines": []any{
					map[string]any{"speaker": "田中", "japanese": "おはよう。", "chinese": "早上好。"},
					map[string]any{"speaker": "李", "japanese": "おはようございます。", "chinese": "早上好。"},
				},
			},
			map[string]any{
				"type":  "grammar",
				"title": "文法",
				"points": []any{
					map[string]any{
						"pattern":   "〜です",
						"meaning":   "是〜",
						"structure": "名詞 + です",
						"examples": []any{
							map[string]any{"japanese": "学生です。", "chinese": "是学生。"},
						},
						"note": nil,
					},
				},
			},
			map[string]any{
				"type":  "quiz",
				"title": "確認",
				"questions": []any{
					map[string]any{
						"question":    "「おはよう」の意味は？",
						"options":     []any{"晚上好", "你好", "早上好", "再见"},
						"correct":     2,
						"explanation": "おはよう是早上的问候。",
					},
				},
			},
			map[string]any{
				"type":  "flashcards",
				"title": "カード",
				"cards": []any{
					vocabItem("おはよう", "おはよう", "ohayou", "早上好"),
					vocabItem("こんにちは", "こんにちは", "konnichiwa", "你好"),
				},
			},
			map[string]any{
				"type":    "culture",
				"title":   "文化",
				"content": "日本では時間帯によってあいさつが変わります。",
			},
		},
	}
}

// sectionOf returns the first section of type t in a fixture document.
func sectionOf(t *testing.T, doc map[string]any, typ SectionType) map[string]any {
	t.Helper()
	for _, raw := range doc["sections"].([]any) {
		sec := raw.(map[string]any)
		if sec["type"] == string(typ) {
			return sec
		}
	}
	t.Fatalf("fixture has no %s section", typ)
	return nil
}

func removeSection(doc map[string]any, typ SectionType) {
	kept := make([]any, 0)
	for _, raw := range doc["sections"].([]any) {
		if raw.(map[string]any)["type"] != string(typ) {
			kept = append(kept, raw)
		}
	}
	doc["sections"] = kept
}

// roundTrip encodes a fixture and decodes it the same way unit files are decoded.
func roundTrip(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	decoded, err := decodeUnit(data)
	require.NoError(t, err)
	return decoded
}

func writeUnit(t *testing.T, root, rel string, doc map[string]any) {
	t.Helper()
	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	writeFile(t, root, rel, string(data))
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func filterIssues(issues []Issue, category Category) []Issue {
	out := make([]Issue, 0)
	for _, issue := range issues {
		if issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

func issuesMentioning(issues []Issue, text string) []Issue {
	out := make([]Issue, 0)
	for _, issue := range issues {
		if strings.Contains(issue.Message, text) {
			out = append(out, issue)
		}
	}
	return out
}
