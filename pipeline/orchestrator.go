package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"faceless_videos/images"
	"faceless_videos/jobs"
	"faceless_videos/storage"
	"faceless_videos/story"
	"faceless_videos/video"
)

// GenerateRequest is the input for a full premise-to-video job.
type GenerateRequest struct {
	StoryType  string `json:"story_type" binding:"required"`
	ImageStyle string `json:"image_style" binding:"required"`
	VoiceName  string `json:"voice_name" binding:"required"`
	Language   string `json:"language"`
	Tone       string `json:"tone"`
}

// ScriptRequest asks for a storyboard project without rendering it.
type ScriptRequest struct {
	StoryType  string `json:"story_type" binding:"required"`
	Language   string `json:"language"`
	Tone       string `json:"tone"`
	SceneCount int    `json:"scene_count"`
}

// FromScriptRequest renders a video from an already-built project.
type FromScriptRequest struct {
	StoryboardProject *story.Project `json:"storyboard_project" binding:"required"`
	ImageStyle        string         `json:"image_style" binding:"required"`
	VoiceName         string         `json:"voice_name" binding:"required"`
	StoryType         string         `json:"story_type" binding:"required"`
}

// Runner sequences the generation steps of one job. Every collaborator
// call blocks the job for its full duration, internal retries included.
type Runner struct {
	generator *story.Generator
	imageGen  images.Generator
	clips     *video.ClipBuilder
	assembler *video.Assembler
	layout    *storage.Layout
	jobs      *jobs.Manager
}

func NewRunner(generator *story.Generator, imageGen images.Generator, clips *video.ClipBuilder, assembler *video.Assembler, layout *storage.Layout, manager *jobs.Manager) *Runner {
	return &Runner{
		generator: generator,
		imageGen:  imageGen,
		clips:     clips,
		assembler: assembler,
		layout:    layout,
		jobs:      manager,
	}
}

func (r *Runner) fail(jobID, message string) {
	r.jobs.Update(jobID, jobs.StatusError, "", message)
}

// recoverJob converts a panic inside a job into an error status instead
// of taking down the worker.
func (r *Runner) recoverJob(jobID string) {
	if rec := recover(); rec != nil {
		msg := fmt.Sprintf("%v\n\nStack:\n%s", rec, debug.Stack())
		log.Printf("panic in job %s: %s", jobID, msg)
		r.fail(jobID, msg)
	}
}

func defaulted(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Run executes a full generation job. Failures before the story text
// exists leave no trace on disk; later failures leave partial assets in
// the story directory for inspection.
func (r *Runner) Run(ctx context.Context, jobID string, req GenerateRequest) {
	defer r.recoverJob(jobID)

	language := defaulted(req.Language, "English")
	tone := defaulted(req.Tone, "Neutral")

	r.jobs.Update(jobID, jobs.StatusRunning, "Generating story and title...", "")
	title, description, storyText, err := r.generator.GenerateStory(req.StoryType, language, tone)
	if err != nil {
		r.fail(jobID, "Failed to generate a story and title. Please try again later.")
		return
	}
	if ctx.Err() != nil {
		r.fail(jobID, "job cancelled")
		return
	}

	project, err := r.buildProject(jobID, req.StoryType, title, storyText, language, tone)
	if err != nil {
		r.fail(jobID, err.Error())
		return
	}
	project.Description = description

	storyDir, err := r.layout.CreateStoryDir(req.StoryType, title)
	if err != nil {
		r.fail(jobID, err.Error())
		return
	}
	if err := r.layout.SaveStoryText(storyDir, fmt.Sprintf("%s\n\n%s\n\n%s", title, description, storyText)); err != nil {
		r.fail(jobID, err.Error())
		return
	}

	r.produce(ctx, jobID, project, storyDir, req.ImageStyle, req.VoiceName)
}

// buildProject runs the character and storyboard steps shared by the
// async job and the synchronous script endpoint.
func (r *Runner) buildProject(jobID, storyType, title, storyText, language, tone string) (*story.Project, error) {
	kind := story.ParseKind(storyType)

	var characters []story.Character
	if kind.HasCast() {
		if jobID != "" {
			r.jobs.Update(jobID, jobs.StatusRunning, "Generating character descriptions...", "")
		}
		var err error
		characters, err = r.generator.GenerateCharacters(storyText)
		if err != nil {
			return nil, fmt.Errorf("Failed to generate characters. Please try again later.")
		}
	}

	if jobID != "" {
		r.jobs.Update(jobID, jobs.StatusRunning, "Generating storyboard...", "")
	}
	names := make([]string, 0, len(characters))
	for _, c := range characters {
		names = append(names, c.Name)
	}
	project, err := r.generator.GenerateStoryboard(kind, title, storyText, names, language, tone)
	if err != nil {
		return nil, fmt.Errorf("Failed to generate storyboard. Please try again later.")
	}

	project.Storyboards = story.DropEmptyScenes(project.Storyboards)
	if len(project.Storyboards) == 0 {
		return nil, fmt.Errorf("Failed to generate storyboard. Please try again later.")
	}
	project.Characters = characters
	return project, nil
}

// BuildScript is the synchronous storyboard-only path.
func (r *Runner) BuildScript(req ScriptRequest) (*story.Project, error) {
	language := defaulted(req.Language, "English")
	tone := defaulted(req.Tone, "Neutral")

	title, description, storyText, err := r.generator.GenerateStory(req.StoryType, language, tone)
	if err != nil {
		return nil, err
	}
	project, err := r.buildProject("", req.StoryType, title, storyText, language, tone)
	if err != nil {
		return nil, err
	}
	if req.SceneCount > 0 && len(project.Storyboards) > req.SceneCount {
		project.Storyboards = project.Storyboards[:req.SceneCount]
	}
	project.Description = description
	return project, nil
}

// GenerateIdeas proxies topic brainstorming to the text generator.
func (r *Runner) GenerateIdeas(topic, language, tone string) ([]string, error) {
	return r.generator.GenerateIdeas(topic, defaulted(language, "English"), defaulted(tone, "Neutral"))
}

// RunFromScript renders a video for a caller-supplied project.
func (r *Runner) RunFromScript(ctx context.Context, jobID string, req FromScriptRequest) {
	defer r.recoverJob(jobID)

	project := req.StoryboardProject
	project.Storyboards = story.DropEmptyScenes(project.Storyboards)
	if len(project.Storyboards) == 0 {
		r.fail(jobID, "Storyboard has no scenes with subtitles.")
		return
	}

	storyDir, err := r.layout.CreateStoryDir(req.StoryType, project.ProjectInfo.Title)
	if err != nil {
		r.fail(jobID, err.Error())
		return
	}

	r.produce(ctx, jobID, project, storyDir, req.ImageStyle, req.VoiceName)
}

// produce is the asset half of a job: images, narration, clips, final
// video, captions.
func (r *Runner) produce(ctx context.Context, jobID string, project *story.Project, storyDir, imageStyle, voice string) {
	r.jobs.Update(jobID, jobs.StatusRunning, "Generating images for each scene...", "")
	resolver := images.NewResolver(r.imageGen, imageStyle)
	imageFiles, err := resolver.Resolve(project, storyDir)
	if err != nil {
		r.fail(jobID, err.Error())
		return
	}
	if len(imageFiles) == 0 {
		r.fail(jobID, "No images were generated. Cannot create video.")
		return
	}

	for i := range project.Storyboards {
		scene := &project.Storyboards[i]
		scene.Audio = r.layout.AudioPath(storyDir, int(scene.SceneNumber))
	}
	if err := r.layout.SaveProject(storyDir, project); err != nil {
		r.fail(jobID, err.Error())
		return
	}
	if ctx.Err() != nil {
		r.fail(jobID, "job cancelled")
		return
	}

	r.jobs.Update(jobID, jobs.StatusRunning, "Creating video from images...", "")
	videoPath, err := r.renderVideo(project, storyDir, voice)
	if err != nil {
		r.fail(jobID, err.Error())
		return
	}

	r.jobs.SetResult(jobID, videoPath, storyDir)
	r.jobs.Update(jobID, jobs.StatusCompleted, "Video created successfully!", "")
}

// renderVideo builds one clip per scene, joins them, and burns a
// caption copy. The captioned copy is cosmetic and never fails the job.
func (r *Runner) renderVideo(project *story.Project, storyDir, voice string) (string, error) {
	clipsDir := filepath.Join(storyDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating clips directory: %w", err)
	}
	defer os.RemoveAll(clipsDir)

	clipPaths := make([]string, 0, len(project.Storyboards))
	texts := make([]string, 0, len(project.Storyboards))
	durations := make([]float64, 0, len(project.Storyboards))

	for i := range project.Storyboards {
		scene := &project.Storyboards[i]
		clipPath := filepath.Join(clipsDir, fmt.Sprintf("clip_%d.mp4", int(scene.SceneNumber)))
		if err := r.clips.Build(scene, voice, scene.Audio, clipPath); err != nil {
			return "", err
		}
		clipPaths = append(clipPaths, clipPath)
		texts = append(texts, scene.Subtitles)

		d, err := video.MediaDuration(scene.Audio)
		if err != nil {
			return "", err
		}
		durations = append(durations, d)
	}

	videoPath := r.layout.VideoPath(storyDir)
	if err := r.assembler.Concat(clipPaths, videoPath); err != nil {
		return "", err
	}

	captions := video.BuildCaptions(texts, durations)
	assPath := filepath.Join(storyDir, "captions.ass")
	if err := video.WriteASS(captions, assPath); err != nil {
		log.Printf("skipping captions: %v", err)
		return videoPath, nil
	}
	if err := r.assembler.BurnCaptions(videoPath, assPath, r.layout.SubtitleVideoPath(storyDir)); err != nil {
		log.Printf("skipping captions: %v", err)
	}
	return videoPath, nil
}
