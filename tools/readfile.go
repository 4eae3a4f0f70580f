package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/scttfrdmn/inquire/agent"
)

// textExtensions is the allowlist of plain-text file types the reader
// accepts. Binary formats go through the document loader instead.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".csv": true, ".json": true, ".xml": true,
	".yaml": true, ".yml": true, ".toml": true, ".ini": true, ".cfg": true,
	".conf": true, ".log": true, ".html": true, ".css": true, ".sql": true,
	".py": true, ".js": true, ".ts": true, ".go": true, ".rs": true,
	".java": true, ".c": true, ".h": true, ".cpp": true, ".hpp": true,
	".cs": true, ".rb": true, ".php": true, ".sh": true, ".bash": true,
	".pl": true, ".lua": true, ".r": true, ".kt": true, ".swift": true,
}

// ReadFileTool returns the plain-text content of a local file. All
// failures come back as "Error: ..." text payloads so the LLM can react
// to them mid-plan.
type ReadFileTool struct{}

// NewReadFileTool creates a plain-text file reader.
func NewReadFileTool() *ReadFileTool { return &ReadFileTool{} }

// Name implements agent.Tool.
func (t *ReadFileTool) Name() string { return "read_file" }

// Description implements agent.Tool.
func (t *ReadFileTool) Description() string {
	return "Read the content of a plain text file (.txt, .md, .csv, .json, source code, and similar text formats)."
}

// Parameters implements agent.Tool.
func (t *ReadFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the text file to read",
			},
		},
		"required": []string{"file_path"},
	}
}

// Execute implements agent.Tool.
func (t *ReadFileTool) Execute(_ context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	path, _ := params["file_path"].(string)
	if strings.TrimSpace(path) == "" {
		return agent.NewToolError("file_path parameter is required"), nil
	}

	if _, err := os.Stat(path); err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error: File '%s' not found.", path)), nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] {
		return agent.NewToolResult(fmt.Sprintf(
			"Error: File '%s' may not be a text file. Supported text extensions: %s",
			path, supportedTextExtensions())), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error reading file: %v", err)), nil
	}

	if utf8.Valid(data) {
		return agent.NewToolResult(string(data)), nil
	}
	return agent.NewToolResult(decodeLatin1(data)), nil
}

// decodeLatin1 maps each byte to its Latin-1 code point, the fallback
// for files that are not valid UTF-8.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

func supportedTextExtensions() string {
	exts := make([]string, 0, len(textExtensions))
	for ext := range textExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
