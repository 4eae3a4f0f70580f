package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/scttfrdmn/inquire/agent"
)

// Transcriber converts an audio file to text. The OpenAI adapter's
// Whisper endpoint satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

var (
	audioExtensions = map[string]bool{
		".mp3": true, ".wav": true, ".m4a": true, ".flac": true,
		".ogg": true, ".aac": true, ".wma": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
		".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	}
)

// TranscribeTool converts spoken audio or video content to text. Video
// inputs are first demuxed to a temporary audio-only file, which is
// removed once transcription finishes, on every path.
type TranscribeTool struct {
	transcriber Transcriber
	// extractAudio is swappable for tests; defaults to ffmpeg demuxing.
	extractAudio func(ctx context.Context, videoPath, wavPath string) error
}

// NewTranscribeTool creates a media transcription tool.
func NewTranscribeTool(transcriber Transcriber) *TranscribeTool {
	t := &TranscribeTool{transcriber: transcriber}
	t.extractAudio = t.ffmpegExtract
	return t
}

// Name implements agent.Tool.
func (t *TranscribeTool) Name() string { return "transcribe_media" }

// Description implements agent.Tool.
func (t *TranscribeTool) Description() string {
	return "Transcribe the spoken content of an audio or video file (MP3, WAV, MP4, and similar formats) to text."
}

// Parameters implements agent.Tool.
func (t *TranscribeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the media file to transcribe",
			},
		},
		"required": []string{"file_path"},
	}
}

// Execute implements agent.Tool.
func (t *TranscribeTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	path, _ := params["file_path"].(string)
	if strings.TrimSpace(path) == "" {
		return agent.NewToolError("file_path parameter is required"), nil
	}
	if _, err := os.Stat(path); err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error: File '%s' not found.", path)), nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !audioExtensions[ext] && !videoExtensions[ext] {
		return agent.NewToolResult(fmt.Sprintf(
			"Error: File '%s' is not a supported media format. Supported formats: %s",
			path, supportedMediaExtensions())), nil
	}

	audioPath := path
	if videoExtensions[ext] {
		tmp, err := os.CreateTemp("", "inquire-audio-*.wav")
		if err != nil {
			return agent.NewToolResult(fmt.Sprintf("Error creating temporary audio file: %v", err)), nil
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := t.extractAudio(ctx, path, tmpPath); err != nil {
			return agent.NewToolResult(fmt.Sprintf("Error extracting audio from video: %v", err)), nil
		}
		audioPath = tmpPath
	}

	text, err := t.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error transcribing media: %v", err)), nil
	}
	return agent.NewToolResult(text), nil
}

// ffmpegExtract demuxes a video's audio track into a 16 kHz mono WAV,
// the format the transcription endpoint handles best.
func (t *TranscribeTool) ffmpegExtract(_ context.Context, videoPath, wavPath string) error {
	return ffmpeg.Input(videoPath).
		Output(wavPath, ffmpeg.KwArgs{
			"vn":  "",
			"ac":  1,
			"ar":  16000,
			"f":   "wav",
			"map": "0:a",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}

func supportedMediaExtensions() string {
	exts := make([]string, 0, len(audioExtensions)+len(videoExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
