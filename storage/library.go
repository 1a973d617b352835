package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"faceless_videos/story"
)

// fallbackAudioDuration is used when an audio file is missing or cannot
// be probed.
const fallbackAudioDuration = 5.0

// VideoEntry is one discovered project in the story tree.
type VideoEntry struct {
	StoryType    string `json:"story_type"`
	ID           string `json:"id"`
	Title        string `json:"title"`
	HasVideo     bool   `json:"has_video"`
	HasThumbnail bool   `json:"has_thumbnail"`
	VideoURL     string `json:"video_url,omitempty"`
}

// SceneDetails is a storyboard scene plus its probed narration length.
type SceneDetails struct {
	story.Scene
	AudioDuration float64 `json:"audio_duration"`
}

// ProjectDetails is a persisted project enriched for the details view.
type ProjectDetails struct {
	ProjectInfo story.ProjectInfo `json:"project_info"`
	Description string            `json:"description,omitempty"`
	Characters  []story.Character `json:"characters"`
	Storyboards []SceneDetails    `json:"storyboards"`
	StoryText   string            `json:"story_text,omitempty"`
}

// Library scans and maintains the story tree. Durations come from the
// injected probe so the scan has no ffmpeg dependency of its own.
type Library struct {
	layout *Layout
	probe  func(path string) (float64, error)
}

func NewLibrary(layout *Layout, probe func(path string) (float64, error)) *Library {
	return &Library{layout: layout, probe: probe}
}

// List walks data/<story_type>/<id> and reports every project directory
// found, whether or not its video finished rendering.
func (lib *Library) List() ([]VideoEntry, error) {
	entries := []VideoEntry{}

	types, err := os.ReadDir(lib.layout.DataDir())
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	for _, t := range types {
		if !t.IsDir() {
			continue
		}
		stories, err := os.ReadDir(filepath.Join(lib.layout.DataDir(), t.Name()))
		if err != nil {
			continue
		}
		for _, s := range stories {
			if !s.IsDir() {
				continue
			}
			dir := filepath.Join(lib.layout.DataDir(), t.Name(), s.Name())
			entry := VideoEntry{
				StoryType: t.Name(),
				ID:        s.Name(),
				Title:     s.Name(),
			}
			if p, err := lib.layout.LoadProject(dir); err == nil && p.ProjectInfo.Title != "" {
				entry.Title = p.ProjectInfo.Title
			}
			if _, err := os.Stat(lib.layout.VideoPath(dir)); err == nil {
				entry.HasVideo = true
				entry.VideoURL = fmt.Sprintf("/api/video_file/%s/%s", t.Name(), s.Name())
			}
			if _, err := os.Stat(filepath.Join(dir, "scene_1.png")); err == nil {
				entry.HasThumbnail = true
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Details loads a project and attaches per-scene audio durations. Scenes
// whose audio is missing or unreadable get a fixed estimate instead of
// failing the whole view.
func (lib *Library) Details(storyType, id string) (*ProjectDetails, error) {
	dir := filepath.Join(lib.layout.DataDir(), storyType, id)
	project, err := lib.layout.LoadProject(dir)
	if err != nil {
		return nil, err
	}

	details := &ProjectDetails{
		ProjectInfo: project.ProjectInfo,
		Description: project.Description,
		Characters:  project.Characters,
		Storyboards: make([]SceneDetails, 0, len(project.Storyboards)),
	}

	for _, scene := range project.Storyboards {
		duration := fallbackAudioDuration
		audioPath := lib.layout.AudioPath(dir, int(scene.SceneNumber))
		if d, err := lib.probe(audioPath); err == nil && d > 0 {
			duration = d
		}
		details.Storyboards = append(details.Storyboards, SceneDetails{
			Scene:         scene,
			AudioDuration: duration,
		})
	}

	if text, err := os.ReadFile(filepath.Join(dir, StoryTextFile)); err == nil {
		details.StoryText = string(text)
	}
	return details, nil
}

// Delete removes a story directory and prunes its story-type directory
// when that was the last story of the type.
func (lib *Library) Delete(storyType, id string) error {
	dir := filepath.Join(lib.layout.DataDir(), storyType, id)
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing story directory: %w", err)
	}

	typeDir := filepath.Join(lib.layout.DataDir(), storyType)
	if remaining, err := os.ReadDir(typeDir); err == nil && len(remaining) == 0 {
		if err := os.Remove(typeDir); err != nil {
			return fmt.Errorf("pruning story type directory: %w", err)
		}
	}
	return nil
}
