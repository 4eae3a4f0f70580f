package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
)

// imageMIMETypes maps image file extensions to MIME types. Unknown
// extensions fall back to JPEG.
var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// ImageTool answers a natural-language question about a local image by
// sending it to a vision-capable model.
type ImageTool struct {
	vision llm.Vision
}

// NewImageTool creates an image analysis tool backed by the given
// vision model.
func NewImageTool(vision llm.Vision) *ImageTool {
	return &ImageTool{vision: vision}
}

// Name implements agent.Tool.
func (t *ImageTool) Name() string { return "image_analysis" }

// Description implements agent.Tool.
func (t *ImageTool) Description() string {
	return "Analyze an image file and answer a question about its content."
}

// Parameters implements agent.Tool.
func (t *ImageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the image file to analyze",
			},
			"question": map[string]interface{}{
				"type":        "string",
				"description": "The question to ask about the image",
			},
		},
		"required": []string{"file_path", "question"},
	}
}

// Execute implements agent.Tool.
func (t *ImageTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	path, _ := params["file_path"].(string)
	question, _ := params["question"].(string)
	if strings.TrimSpace(path) == "" || strings.TrimSpace(question) == "" {
		return agent.NewToolError("file_path and question parameters are required"), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agent.NewToolResult(fmt.Sprintf("Error: File '%s' not found.", path)), nil
		}
		return agent.NewToolResult(fmt.Sprintf("Error reading image file: %v", err)), nil
	}

	answer, err := t.vision.Describe(ctx, question, []agent.ImagePart{{
		MIMEType: imageMIME(path),
		Data:     data,
	}})
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error analyzing image: %v", err)), nil
	}
	return agent.NewToolResult(answer), nil
}

func imageMIME(path string) string {
	if mime, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "image/jpeg"
}
