package story

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexInt decodes a scene number that generation sometimes emits as a
// JSON string ("3") instead of a number.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*n = FlexInt(v)
	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(n))
}

// Character holds the permanent visual attributes used to keep a person
// consistent across scene images. All fields are free text and read-only
// once generated.
type Character struct {
	Name           string `json:"name"`
	Ethnicity      string `json:"ethnicity"`
	Gender         string `json:"gender"`
	Age            string `json:"age"`
	FacialFeatures string `json:"facial_features"`
	BodyType       string `json:"body_type"`
	HairStyle      string `json:"hair_style"`
	Accessories    string `json:"accessories"`
}

// Scene is one narrated visual beat. Image and Audio start empty and are
// filled by asset resolution and clip building.
type Scene struct {
	SceneNumber    FlexInt `json:"scene_number"`
	Description    string  `json:"description"`
	Subtitles      string  `json:"subtitles"`
	Image          string  `json:"image,omitempty"`
	Audio          string  `json:"audio,omitempty"`
	TransitionType string  `json:"transition_type,omitempty"`
}

type ProjectInfo struct {
	Title     string `json:"title"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
}

// Project is the full structured representation of one video. Scene order
// is narrative order and is preserved through every transformation.
type Project struct {
	ProjectInfo ProjectInfo `json:"project_info"`
	Description string      `json:"description,omitempty"`
	Characters  []Character `json:"characters"`
	Storyboards []Scene     `json:"storyboards"`
}

// EmptyProject returns a valid zero-scene project, the fallback shape for
// unparsable storyboard responses.
func EmptyProject(title string) *Project {
	return &Project{
		ProjectInfo: ProjectInfo{
			Title:     title,
			User:      "AI Generated",
			Timestamp: time.Now().Format("2006-01-02 03:04:05 PM"),
		},
		Characters:  []Character{},
		Storyboards: []Scene{},
	}
}

// CharacterNames lists the cast names for storyboard prompt construction.
func (p *Project) CharacterNames() []string {
	names := make([]string, 0, len(p.Characters))
	for _, c := range p.Characters {
		names = append(names, c.Name)
	}
	return names
}

// DropEmptyScenes removes scenes whose subtitles are empty or whitespace.
// Relative order and the generated scene_number values are kept as-is.
func DropEmptyScenes(scenes []Scene) []Scene {
	kept := make([]Scene, 0, len(scenes))
	for _, s := range scenes {
		if strings.TrimSpace(s.Subtitles) != "" {
			kept = append(kept, s)
		}
	}
	return kept
}
