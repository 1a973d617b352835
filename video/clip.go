package video

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"faceless_videos/images"
	"faceless_videos/story"
)

// RenderFPS is the frame rate of every produced clip and video.
const RenderFPS = 24.0

const (
	frameWidth  = 720
	frameHeight = 1280
)

// Narrator synthesizes narration audio for subtitle text.
type Narrator interface {
	Synthesize(text, voice string) ([]byte, error)
}

// ClipBuilder renders one still-image clip per scene. Narration drives
// pacing: each clip lasts exactly as long as its synthesized audio.
type ClipBuilder struct {
	narrator Narrator
}

func NewClipBuilder(narrator Narrator) *ClipBuilder {
	return &ClipBuilder{narrator: narrator}
}

// Build synthesizes the scene's narration to audioPath, then renders the
// scene image into an mp4 clip at clipPath with the scene's transition
// applied over the full clip. A narration failure is returned as-is;
// there is no substitute for a missing voice track. A missing image is
// replaced with a blank frame so rendering can continue.
func (b *ClipBuilder) Build(scene *story.Scene, voice, audioPath, clipPath string) error {
	audio, err := b.narrator.Synthesize(scene.Subtitles, voice)
	if err != nil {
		return fmt.Errorf("narrating scene %d: %w", int(scene.SceneNumber), err)
	}
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return fmt.Errorf("saving narration for scene %d: %w", int(scene.SceneNumber), err)
	}
	scene.Audio = audioPath

	duration, err := MediaDuration(audioPath)
	if err != nil {
		return fmt.Errorf("probing narration for scene %d: %w", int(scene.SceneNumber), err)
	}

	imagePath := scene.Image
	if imagePath == "" || !fileExists(imagePath) {
		log.Printf("image missing for scene %d, using blank frame", int(scene.SceneNumber))
		imagePath = filepath.Join(filepath.Dir(clipPath), fmt.Sprintf("blank_scene_%d.png", int(scene.SceneNumber)))
		if err := images.WriteBlankImage(imagePath); err != nil {
			return fmt.Errorf("creating blank frame for scene %d: %w", int(scene.SceneNumber), err)
		}
		scene.Image = imagePath
	}

	return renderClip(imagePath, audioPath, clipPath, scene.TransitionType, duration)
}

func renderClip(imagePath, audioPath, clipPath, transitionType string, duration float64) error {
	args := []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
	}

	switch transitionType {
	case "zoom-in":
		args = append(args, "-vf", NewZoom("in", duration, RenderFPS).Filter(frameWidth, frameHeight))
	case "zoom-out":
		args = append(args, "-vf", NewZoom("out", duration, RenderFPS).Filter(frameWidth, frameHeight))
	default:
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", frameWidth, frameHeight))
	}

	args = append(args,
		"-t", fmt.Sprintf("%.3f", duration),
		"-r", fmt.Sprintf("%g", RenderFPS),
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-shortest",
		clipPath,
	)

	cmd := exec.Command("ffmpeg", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		log.Printf("ffmpeg clip output: %s", string(output))
		return fmt.Errorf("rendering clip %s: %w", clipPath, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
