package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"faceless_videos/story"
)

func fixedProbe(d float64, err error) func(string) (float64, error) {
	return func(string) (float64, error) { return d, err }
}

func seedProject(t *testing.T, layout *Layout, storyType, title string) string {
	t.Helper()
	dir, err := layout.CreateStoryDir(storyType, title)
	if err != nil {
		t.Fatalf("CreateStoryDir: %v", err)
	}
	project := story.EmptyProject(title)
	project.Storyboards = append(project.Storyboards, story.Scene{SceneNumber: 1, Subtitles: "s"})
	if err := layout.SaveProject(dir, project); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	return dir
}

func TestListFindsProjects(t *testing.T) {
	layout := NewLayout(t.TempDir())
	library := NewLibrary(layout, fixedProbe(0, errors.New("no probe")))

	dir := seedProject(t, layout, "Scary", "Dark Woods")
	seedProject(t, layout, "Mystery", "The Letter")

	// one of them has a finished video
	if err := os.WriteFile(layout.VideoPath(dir), []byte("mp4"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	entries, err := library.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}

	byID := map[string]VideoEntry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	if !byID["Dark_Woods"].HasVideo {
		t.Error("Dark_Woods should have a video")
	}
	if byID["The_Letter"].HasVideo {
		t.Error("The_Letter should not have a video")
	}
	if byID["Dark_Woods"].Title != "Dark Woods" {
		t.Errorf("title = %q, want project title", byID["Dark_Woods"].Title)
	}
}

func TestListEmptyDataDir(t *testing.T) {
	layout := NewLayout(filepath.Join(t.TempDir(), "missing"))
	library := NewLibrary(layout, fixedProbe(0, nil))

	entries, err := library.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d", len(entries))
	}
}

func TestDetailsUsesProbedDuration(t *testing.T) {
	layout := NewLayout(t.TempDir())
	library := NewLibrary(layout, fixedProbe(7.25, nil))
	seedProject(t, layout, "Scary", "Dark Woods")

	details, err := library.Details("Scary", "Dark_Woods")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if len(details.Storyboards) != 1 {
		t.Fatalf("scenes = %d", len(details.Storyboards))
	}
	if details.Storyboards[0].AudioDuration != 7.25 {
		t.Errorf("duration = %f", details.Storyboards[0].AudioDuration)
	}
}

func TestDetailsFallsBackToFixedDuration(t *testing.T) {
	layout := NewLayout(t.TempDir())
	library := NewLibrary(layout, fixedProbe(0, errors.New("no ffprobe")))
	seedProject(t, layout, "Scary", "Dark Woods")

	details, err := library.Details("Scary", "Dark_Woods")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.Storyboards[0].AudioDuration != fallbackAudioDuration {
		t.Errorf("duration = %f, want fallback %f", details.Storyboards[0].AudioDuration, fallbackAudioDuration)
	}
}

func TestDeleteRemovesStoryAndPrunesType(t *testing.T) {
	layout := NewLayout(t.TempDir())
	library := NewLibrary(layout, fixedProbe(0, nil))
	seedProject(t, layout, "Scary", "Dark Woods")

	if err := library.Delete("Scary", "Dark_Woods"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(layout.DataDir(), "Scary")); !os.IsNotExist(err) {
		t.Error("empty story-type directory should be pruned")
	}
}

func TestDeleteKeepsTypeDirWithSiblings(t *testing.T) {
	layout := NewLayout(t.TempDir())
	library := NewLibrary(layout, fixedProbe(0, nil))
	seedProject(t, layout, "Scary", "Dark Woods")
	seedProject(t, layout, "Scary", "Old House")

	if err := library.Delete("Scary", "Dark_Woods"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(layout.DataDir(), "Scary", "Old_House")); err != nil {
		t.Errorf("sibling removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(layout.DataDir(), "Scary")); err != nil {
		t.Errorf("type dir should remain: %v", err)
	}
}

func TestDeleteMissingStory(t *testing.T) {
	layout := NewLayout(t.TempDir())
	library := NewLibrary(layout, fixedProbe(0, nil))

	if err := library.Delete("Scary", "Nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
