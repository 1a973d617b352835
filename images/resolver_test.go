package images

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faceless_videos/story"
)

var cast = []story.Character{
	{
		Name:           "Giovanni Rossi",
		Ethnicity:      "Italian",
		Gender:         "male",
		Age:            "60s",
		FacialFeatures: "weathered face",
		BodyType:       "slight",
		HairStyle:      "grey, short",
		Accessories:    "round glasses",
	},
}

func TestBuildPromptAppendsStyle(t *testing.T) {
	got := BuildPrompt("An empty square at dawn", nil, "cinematic")
	if got != "An empty square at dawn | cinematic" {
		t.Errorf("got %q", got)
	}
}

func TestBuildPromptIncludesMentionedCharacter(t *testing.T) {
	got := BuildPrompt("Giovanni inspects a clock", cast, "cinematic")
	if !strings.Contains(got, "Giovanni Rossi's appearance:") {
		t.Errorf("appearance block missing: %q", got)
	}
	if !strings.Contains(got, "round glasses") {
		t.Errorf("accessories missing: %q", got)
	}
}

func TestBuildPromptMatchesPossessiveForms(t *testing.T) {
	for _, desc := range []string{
		"Giovanni's workshop at night",
		"Giovanni Rossi's hands on the bench",
	} {
		got := BuildPrompt(desc, cast, "anime")
		if !strings.Contains(got, "appearance:") {
			t.Errorf("possessive %q did not pull appearance", desc)
		}
	}
}

func TestBuildPromptSkipsBracedMentions(t *testing.T) {
	got := BuildPrompt("{{Giovanni's}} workshop, empty and dark", cast, "cinematic")
	if strings.Contains(got, "appearance:") {
		t.Errorf("braced mention pulled appearance: %q", got)
	}
	if strings.Contains(got, "{{") || strings.Contains(got, "}}") {
		t.Errorf("braces not stripped: %q", got)
	}
}

func TestBuildPromptBracedAndPlainMentions(t *testing.T) {
	got := BuildPrompt("{{Giovanni's}} workshop where Giovanni works", cast, "cinematic")
	if !strings.Contains(got, "appearance:") {
		t.Errorf("plain mention should still pull appearance: %q", got)
	}
}

type scriptedGenerator struct {
	results []error
	calls   int
}

func (g *scriptedGenerator) Generate(prompt string) ([]byte, error) {
	var err error
	if g.calls < len(g.results) {
		err = g.results[g.calls]
	}
	g.calls++
	if err != nil {
		return nil, err
	}
	return []byte("png-bytes"), nil
}

func newProject(sceneCount int) *story.Project {
	p := story.EmptyProject("Test")
	for i := 1; i <= sceneCount; i++ {
		p.Storyboards = append(p.Storyboards, story.Scene{
			SceneNumber: story.FlexInt(i),
			Description: "scene",
			Subtitles:   "words",
		})
	}
	return p
}

func TestResolveWritesEveryScene(t *testing.T) {
	dir := t.TempDir()
	project := newProject(3)

	files, err := NewResolver(&scriptedGenerator{}, "cinematic").Resolve(project, dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d", len(files))
	}
	for i, scene := range project.Storyboards {
		if scene.Image == "" {
			t.Errorf("scene %d has no image", i+1)
		}
		if _, err := os.Stat(scene.Image); err != nil {
			t.Errorf("scene %d image missing on disk: %v", i+1, err)
		}
	}
}

func TestResolveCarriesForwardOnFailure(t *testing.T) {
	dir := t.TempDir()
	project := newProject(3)
	gen := &scriptedGenerator{results: []error{nil, errors.New("rate limited"), nil}}

	files, err := NewResolver(gen, "cinematic").Resolve(project, dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d", len(files))
	}
	if project.Storyboards[1].Image != project.Storyboards[0].Image {
		t.Errorf("scene 2 should reuse scene 1 image: %q vs %q",
			project.Storyboards[1].Image, project.Storyboards[0].Image)
	}
	if project.Storyboards[2].Image == project.Storyboards[0].Image {
		t.Errorf("scene 3 should have its own image")
	}
}

func TestResolveBlanksFirstScene(t *testing.T) {
	dir := t.TempDir()
	project := newProject(1)
	gen := &scriptedGenerator{results: []error{errors.New("down")}}

	files, err := NewResolver(gen, "cinematic").Resolve(project, dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %d", len(files))
	}
	if project.Storyboards[0].Image != filepath.Join(dir, "scene_1.png") {
		t.Errorf("image = %q", project.Storyboards[0].Image)
	}
	info, err := os.Stat(project.Storyboards[0].Image)
	if err != nil {
		t.Fatalf("blank image not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("blank image is empty")
	}
}

func TestResolveCarriesForwardOnCreditError(t *testing.T) {
	dir := t.TempDir()
	project := newProject(3)
	gen := &scriptedGenerator{results: []error{nil, errors.New("insufficient credit: status 402")}}

	files, err := NewResolver(gen, "cinematic").Resolve(project, dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d, want one path per scene", len(files))
	}
	if files[1] != files[0] {
		t.Errorf("scene 2 should reuse scene 1 image: %q vs %q", files[1], files[0])
	}
	if files[2] == files[0] {
		t.Errorf("scene 3 should have its own image")
	}
	if gen.calls != 3 {
		t.Errorf("generator called %d times, want 3 (credit error is terminal per call, not per job)", gen.calls)
	}
}

func TestCooldownForParsesResetHint(t *testing.T) {
	if got := cooldownFor("rate limit resets in ~42s"); got.Seconds() != 42 {
		t.Errorf("cooldown = %v", got)
	}
	if got := cooldownFor("some other error"); got != retryDelay {
		t.Errorf("fallback cooldown = %v", got)
	}
}
