package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv"
	"github.com/scttfrdmn/inquire/agent"
)

// DocumentTool extracts text from rich document formats (PDF, Word,
// spreadsheets, HTML, images with embedded text) via docconv. Plain
// text files are better served by read_file.
type DocumentTool struct {
	// convert is swappable for tests; defaults to docconv.ConvertPath.
	convert func(path string) (*docconv.Response, error)
}

// NewDocumentTool creates a document text extraction tool.
func NewDocumentTool() *DocumentTool {
	return &DocumentTool{convert: docconv.ConvertPath}
}

// Name implements agent.Tool.
func (t *DocumentTool) Name() string { return "document_loader" }

// Description implements agent.Tool.
func (t *DocumentTool) Description() string {
	return "Extract text content from documents such as PDFs, Word files, spreadsheets and HTML pages."
}

// Parameters implements agent.Tool.
func (t *DocumentTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the document to extract text from",
			},
		},
		"required": []string{"file_path"},
	}
}

// Execute implements agent.Tool.
func (t *DocumentTool) Execute(_ context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	path, _ := params["file_path"].(string)
	if strings.TrimSpace(path) == "" {
		return agent.NewToolError("file_path parameter is required"), nil
	}
	if _, err := os.Stat(path); err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error: File '%s' not found.", path)), nil
	}

	res, err := t.convert(path)
	if err != nil {
		return agent.NewToolError(fmt.Sprintf("Error loading document: %v", err)), nil
	}
	text := strings.TrimSpace(res.Body)
	if text == "" {
		return agent.NewToolResult(fmt.Sprintf("Document '%s' contains no extractable text.", path)), nil
	}
	return agent.NewToolResult(text), nil
}
