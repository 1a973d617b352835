package story

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"faceless_videos/ai"
)

// TextGenerator is the chat completion surface the generator needs.
type TextGenerator interface {
	Generate(messages []ai.Message) (string, error)
}

// Generator turns premises into story text, character sheets, storyboards
// and video ideas.
type Generator struct {
	client    TextGenerator
	charMin   int
	charMax   int
	maxScenes int
}

func NewGenerator(client TextGenerator, charMin, charMax, maxScenes int) *Generator {
	return &Generator{client: client, charMin: charMin, charMax: charMax, maxScenes: maxScenes}
}

var (
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// GenerateStory produces a title, a hashtagged description and the story
// body for the given type. The response is expected as three blocks
// separated by blank lines; anything else is an error.
func (g *Generator) GenerateStory(storyType, language, tone string) (title, description, content string, err error) {
	messages := []ai.Message{
		{Role: "system", Content: storySystemPrompt},
		{Role: "user", Content: storyPrompt(storyType, g.charMin, g.charMax, language, tone)},
	}
	response, err := g.client.Generate(messages)
	if err != nil {
		return "", "", "", err
	}

	parts := strings.SplitN(response, "\n\n", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("unexpected story response format: got %d parts", len(parts))
	}
	title = strings.TrimSpace(strings.Replace(parts[0], "Title: ", "", 1))
	description = fixHashtags(strings.TrimSpace(strings.Replace(parts[1], "Description: ", "", 1)), storyType)
	content = strings.TrimSpace(parts[2])

	if title == "" || content == "" {
		return "", "", "", fmt.Errorf("story response missing title or content")
	}
	return title, description, content, nil
}

// fixHashtags forces the type-specific hashtag to lead the description's
// tags and keeps #facelessvideos.app last.
func fixHashtags(description, storyType string) string {
	first, ok := Hashtags[storyType]
	if !ok {
		first = "#video"
	}
	text, rest, found := strings.Cut(description, "#")
	if !found {
		return description + " " + first + " #facelessvideos.app"
	}
	rest = strings.TrimSpace(strings.ReplaceAll(rest, "facelessvideos.app", ""))
	tags := strings.TrimSpace(first + " #" + rest + " #facelessvideos.app")
	return strings.TrimSpace(text) + " " + tags
}

// GenerateCharacters extracts a cast sheet from the story. A response
// that cannot be parsed is treated as an empty cast, not an error, since
// image prompts degrade gracefully without appearance blocks.
func (g *Generator) GenerateCharacters(storyText string) ([]Character, error) {
	messages := []ai.Message{
		{Role: "system", Content: characterSystemPrompt},
		{Role: "user", Content: characterPrompt(storyText)},
	}
	response, err := g.client.Generate(messages)
	if err != nil {
		return nil, err
	}

	var characters []Character
	if err := json.Unmarshal([]byte(response), &characters); err == nil {
		return characters, nil
	}
	if match := jsonArrayRe.FindString(response); match != "" {
		if err := json.Unmarshal([]byte(match), &characters); err == nil {
			return characters, nil
		}
	}
	log.Printf("character response was not a JSON array, continuing without cast")
	return []Character{}, nil
}

// GenerateStoryboard builds the scene list for the story. Unparsable
// responses fall back to a valid zero-scene project; the caller decides
// whether an empty storyboard is fatal.
func (g *Generator) GenerateStoryboard(kind Kind, title, storyText string, characterNames []string, language, tone string) (*Project, error) {
	timestamp := time.Now().Format("2006-01-02 03:04:05 PM")
	messages := []ai.Message{
		{Role: "system", Content: storyboardSystemPrompt},
		{Role: "user", Content: storyboardPrompt(kind, title, storyText, characterNames, g.maxScenes, language, tone, timestamp)},
	}
	response, err := g.client.Generate(messages)
	if err != nil {
		return nil, err
	}

	match := jsonObjectRe.FindString(response)
	if match == "" {
		log.Printf("no JSON object found in storyboard response")
		return EmptyProject(title), nil
	}
	var project Project
	if err := json.Unmarshal([]byte(match), &project); err != nil {
		log.Printf("failed to parse storyboard JSON: %v", err)
		return EmptyProject(title), nil
	}
	if project.ProjectInfo.Title == "" {
		project.ProjectInfo.Title = title
	}
	return &project, nil
}

// GenerateIdeas returns up to ten one-line video ideas for a topic.
func (g *Generator) GenerateIdeas(topic, language, tone string) ([]string, error) {
	messages := []ai.Message{
		{Role: "system", Content: fmt.Sprintf("You are a creative content strategist. Generate 10 engaging video ideas based on a given topic. Language: %s. Tone: %s.", language, tone)},
		{Role: "user", Content: fmt.Sprintf("Generate 10 video ideas for: %s. Return only the list of ideas, one per line, no numbering or extra text.", topic)},
	}
	response, err := g.client.Generate(messages)
	if err != nil {
		return nil, err
	}

	ideas := make([]string, 0, 10)
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line == "" {
			continue
		}
		ideas = append(ideas, line)
		if len(ideas) == 10 {
			break
		}
	}
	return ideas, nil
}
