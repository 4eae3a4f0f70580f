package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	youtube "github.com/kkdai/youtube/v2"

	"github.com/scttfrdmn/inquire/agent"
)

// maxVideoHeight caps downloaded streams at 720p to bound file size.
const maxVideoHeight = 720

// videoDownloader fetches a YouTube video to a local file. Swappable
// for tests.
type videoDownloader func(ctx context.Context, videoURL, outputPath string) (int64, error)

// YouTubeTool downloads a YouTube video to a local MP4 file so other
// tools (transcription, frame analysis) can work on it.
type YouTubeTool struct {
	download videoDownloader
}

// NewYouTubeTool creates a YouTube download tool.
func NewYouTubeTool() *YouTubeTool {
	t := &YouTubeTool{}
	t.download = t.fetch
	return t
}

// Name implements agent.Tool.
func (t *YouTubeTool) Name() string { return "download_youtube_video" }

// Description implements agent.Tool.
func (t *YouTubeTool) Description() string {
	return "Download a YouTube video to a local file (capped at 720p). Returns the saved path and size."
}

// Parameters implements agent.Tool.
func (t *YouTubeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"youtube_url": map[string]interface{}{
				"type":        "string",
				"description": "URL of the YouTube video to download",
			},
			"output_path": map[string]interface{}{
				"type":        "string",
				"description": "Where to save the video (optional; a temporary path is generated if omitted)",
			},
		},
		"required": []string{"youtube_url"},
	}
}

// Execute implements agent.Tool.
func (t *YouTubeTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	videoURL, _ := params["youtube_url"].(string)
	if strings.TrimSpace(videoURL) == "" {
		return agent.NewToolError("youtube_url parameter is required"), nil
	}

	outputPath, _ := params["output_path"].(string)
	if outputPath == "" {
		outputPath = filepath.Join(os.TempDir(), "inquire-videos",
			strings.ReplaceAll(uuid.NewString(), "-", "")+".mp4")
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return agent.NewToolResult(fmt.Sprintf("Error downloading video: %v", err)), nil
		}
	}

	size, err := t.download(ctx, videoURL, outputPath)
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error downloading video: %v", err)), nil
	}
	return agent.NewToolResult(fmt.Sprintf(
		"Successfully downloaded video to '%s' (Size: %d bytes)", outputPath, size)), nil
}

// fetch resolves the video, picks the best muxed stream at or below the
// height cap, and streams it to outputPath.
func (t *YouTubeTool) fetch(ctx context.Context, videoURL, outputPath string) (int64, error) {
	client := youtube.Client{}
	video, err := client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return 0, fmt.Errorf("resolve video: %w", err)
	}

	format := pickFormat(video.Formats)
	if format == nil {
		return 0, fmt.Errorf("no downloadable stream at or below %dp", maxVideoHeight)
	}

	stream, _, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return 0, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	size, err := io.Copy(out, stream)
	if err != nil {
		os.Remove(outputPath)
		return 0, fmt.Errorf("save stream: %w", err)
	}
	return size, nil
}

// pickFormat chooses the highest-resolution muxed MP4 stream not
// exceeding the height cap.
func pickFormat(formats youtube.FormatList) *youtube.Format {
	candidates := formats.Type("video/mp4").WithAudioChannels()
	var best *youtube.Format
	for i := range candidates {
		f := &candidates[i]
		if f.Height > maxVideoHeight {
			continue
		}
		if best == nil || f.Height > best.Height {
			best = f
		}
	}
	return best
}
