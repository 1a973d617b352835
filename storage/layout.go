package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"faceless_videos/story"
)

const (
	StoryTextFile = "story_english.txt"
	ProjectFile   = "storyboard_project.json"
	VideoFile     = "story_video.mp4"
	SubtitleFile  = "story_video_subtitle.mp4"
	AudioDir      = "audio"
)

var (
	specialCharsRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separatorRe    = regexp.MustCompile(`[-\s]+`)
)

// SanitizeTitle turns a generated title into a directory name: quotes and
// special characters removed, runs of spaces and hyphens collapsed to a
// single underscore.
func SanitizeTitle(title string) string {
	clean := strings.Trim(strings.TrimSpace(title), `"`)
	clean = specialCharsRe.ReplaceAllString(clean, "")
	clean = separatorRe.ReplaceAllString(clean, "_")
	return clean
}

// Layout manages the on-disk story tree under a single data directory:
// data/<story_type>/<sanitized_title>/.
type Layout struct {
	dataDir string
}

func NewLayout(dataDir string) *Layout {
	return &Layout{dataDir: dataDir}
}

func (l *Layout) DataDir() string { return l.dataDir }

// StoryDir returns the directory path for a story without creating it.
func (l *Layout) StoryDir(storyType, title string) string {
	return filepath.Join(l.dataDir, storyType, SanitizeTitle(title))
}

// CreateStoryDir makes the story directory and its audio subdirectory.
func (l *Layout) CreateStoryDir(storyType, title string) (string, error) {
	dir := l.StoryDir(storyType, title)
	if err := os.MkdirAll(filepath.Join(dir, AudioDir), 0o755); err != nil {
		return "", fmt.Errorf("creating story directory: %w", err)
	}
	return dir, nil
}

func (l *Layout) VideoPath(storyDir string) string {
	return filepath.Join(storyDir, VideoFile)
}

func (l *Layout) SubtitleVideoPath(storyDir string) string {
	return filepath.Join(storyDir, SubtitleFile)
}

func (l *Layout) AudioPath(storyDir string, sceneNumber int) string {
	return filepath.Join(storyDir, AudioDir, fmt.Sprintf("scene_%d.mp3", sceneNumber))
}

// SaveStoryText writes the narration source text.
func (l *Layout) SaveStoryText(storyDir, text string) error {
	return os.WriteFile(filepath.Join(storyDir, StoryTextFile), []byte(text), 0o644)
}

// SaveProject persists the storyboard project as indented JSON.
func (l *Layout) SaveProject(storyDir string, project *story.Project) error {
	data, err := json.MarshalIndent(project, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling project: %w", err)
	}
	return os.WriteFile(filepath.Join(storyDir, ProjectFile), data, 0o644)
}

// LoadProject reads a persisted storyboard project back.
func (l *Layout) LoadProject(storyDir string) (*story.Project, error) {
	data, err := os.ReadFile(filepath.Join(storyDir, ProjectFile))
	if err != nil {
		return nil, err
	}
	var project story.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	return &project, nil
}
