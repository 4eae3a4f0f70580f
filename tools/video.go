package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
)

// maxVideoFrames bounds how many frames are sent to the vision model
// for one question.
const maxVideoFrames = 10

// VideoTool answers questions about a video's visual content. It
// samples frames at one-second intervals, capped at maxVideoFrames, and
// asks a vision-capable model a single combined question over all of
// them.
type VideoTool struct {
	vision llm.Vision
	// sampleFrames is swappable for tests; defaults to ffmpeg sampling.
	sampleFrames func(ctx context.Context, videoPath, outDir string) error
}

// NewVideoTool creates a video analysis tool backed by the given vision
// model.
func NewVideoTool(vision llm.Vision) *VideoTool {
	t := &VideoTool{vision: vision}
	t.sampleFrames = t.ffmpegSample
	return t
}

// Name implements agent.Tool.
func (t *VideoTool) Name() string { return "video_analysis" }

// Description implements agent.Tool.
func (t *VideoTool) Description() string {
	return "Analyze the visual content of a video file and answer a question about it. Samples key frames; use transcribe_media for spoken content."
}

// Parameters implements agent.Tool.
func (t *VideoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"video_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the video file to analyze",
			},
			"question": map[string]interface{}{
				"type":        "string",
				"description": "The question to ask about the video's visual content",
			},
		},
		"required": []string{"video_path", "question"},
	}
}

// Execute implements agent.Tool.
func (t *VideoTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	path, _ := params["video_path"].(string)
	question, _ := params["question"].(string)
	if strings.TrimSpace(path) == "" || strings.TrimSpace(question) == "" {
		return agent.NewToolError("video_path and question parameters are required"), nil
	}
	if _, err := os.Stat(path); err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error: File '%s' not found.", path)), nil
	}

	frameDir, err := os.MkdirTemp("", "inquire-frames-*")
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error creating frame directory: %v", err)), nil
	}
	defer os.RemoveAll(frameDir)

	if err := t.sampleFrames(ctx, path, frameDir); err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error extracting frames: %v", err)), nil
	}

	frames, err := loadFrames(frameDir)
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error reading frames: %v", err)), nil
	}
	if len(frames) == 0 {
		return agent.NewToolResult("Error: Could not extract any frames from the video."), nil
	}

	combined := fmt.Sprintf(
		"Question about this video: %s\n\nI'll show you %d key frames from this video to help answer your question.",
		question, len(frames))
	answer, err := t.vision.Describe(ctx, combined, frames)
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error analyzing video: %v", err)), nil
	}
	return agent.NewToolResult(answer), nil
}

// ffmpegSample writes one JPEG per second of video into outDir, up to
// maxVideoFrames files.
func (t *VideoTool) ffmpegSample(_ context.Context, videoPath, outDir string) error {
	pattern := filepath.Join(outDir, "frame_%03d.jpg")
	return ffmpeg.Input(videoPath).
		Output(pattern, ffmpeg.KwArgs{
			"vf":      "fps=1",
			"vframes": maxVideoFrames,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}

// loadFrames reads the sampled JPEGs in frame order.
func loadFrames(dir string) ([]agent.ImagePart, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jpg") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) > maxVideoFrames {
		names = names[:maxVideoFrames]
	}

	frames := make([]agent.ImagePart, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, agent.ImagePart{MIMEType: "image/jpeg", Data: data})
	}
	return frames, nil
}
