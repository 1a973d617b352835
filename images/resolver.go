package images

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"faceless_videos/story"
)

const (
	blankWidth  = 720
	blankHeight = 1280
)

var bracedRe = regexp.MustCompile(`\{\{.*?\}\}`)

// BuildPrompt enhances a scene description with the image style and the
// appearance of every character the description mentions. Name mentions
// wrapped in {{ }} are non-visual references and do not pull in an
// appearance block; the braces themselves are stripped from the result.
func BuildPrompt(description string, characters []story.Character, style string) string {
	enhanced := description + " | " + style

	// braced spans are non-visual references; they never pull a
	// character's appearance into the prompt
	matchable := bracedRe.ReplaceAllString(description, "")

	var blocks []string
	for _, c := range characters {
		if mentions(matchable, c.Name) {
			blocks = append(blocks, fmt.Sprintf("%s's appearance: %s %s %s %s %s %s %s",
				c.Name, c.Ethnicity, c.Gender, c.Age, c.FacialFeatures, c.BodyType, c.HairStyle, c.Accessories))
		}
	}
	if len(blocks) > 0 {
		enhanced += " | " + strings.Join(blocks, " | ")
	}

	return bracedRe.ReplaceAllString(enhanced, "")
}

// mentions reports whether any form of the name occurs in the text:
// first name, full name, or either in possessive form.
func mentions(text, name string) bool {
	first := name
	if i := strings.IndexByte(name, ' '); i >= 0 {
		first = name[:i]
	}
	forms := []string{
		first,
		name,
		first + "'s",
		name + "'s",
		first + "'",
		name + "'",
	}

	lower := strings.ToLower(text)
	for _, form := range forms {
		if strings.Contains(lower, strings.ToLower(form)) {
			return true
		}
	}
	return false
}

// Resolver generates and saves one image per scene.
type Resolver struct {
	generator Generator
	style     string
}

func NewResolver(generator Generator, style string) *Resolver {
	return &Resolver{generator: generator, style: style}
}

// Resolve fills in each scene's image path, writing scene_<n>.png files
// into storyDir. A failed generation reuses the previous scene's image;
// a failed first scene gets a blank placeholder so assembly can proceed.
// Every scene ends up with exactly one path, whatever the provider does.
func (r *Resolver) Resolve(project *story.Project, storyDir string) ([]string, error) {
	imageFiles := make([]string, 0, len(project.Storyboards))

	for i := range project.Storyboards {
		scene := &project.Storyboards[i]
		prompt := BuildPrompt(scene.Description, project.Characters, r.style)

		data, err := r.generator.Generate(prompt)
		filename := filepath.Join(storyDir, fmt.Sprintf("scene_%d.png", int(scene.SceneNumber)))
		if err == nil {
			err = os.WriteFile(filename, data, 0o644)
		}
		if err != nil {
			log.Printf("failed to produce image for scene %d: %v", int(scene.SceneNumber), err)
			if i > 0 {
				scene.Image = imageFiles[len(imageFiles)-1]
				imageFiles = append(imageFiles, scene.Image)
				continue
			}
			if err := WriteBlankImage(filename); err != nil {
				return imageFiles, fmt.Errorf("writing blank image: %w", err)
			}
		}
		scene.Image = filename
		imageFiles = append(imageFiles, filename)
	}
	return imageFiles, nil
}

// WriteBlankImage writes a black 720x1280 placeholder PNG.
func WriteBlankImage(filename string) error {
	img := image.NewRGBA(image.Rect(0, 0, blankWidth, blankHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
