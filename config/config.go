package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Story      StoryConfig      `yaml:"story_generation"`
	Storyboard StoryboardConfig `yaml:"storyboard"`
	Images     ImagesConfig     `yaml:"images"`
	Speech     SpeechConfig     `yaml:"speech"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	DataDir   string `yaml:"data_dir"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

type OpenAIConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxRetries  int     `yaml:"max_retries"`
}

type StoryConfig struct {
	CharLimitMin int `yaml:"char_limit_min"`
	CharLimitMax int `yaml:"char_limit_max"`
}

type StoryboardConfig struct {
	MaxScenes int `yaml:"max_scenes"`
}

type ImagesConfig struct {
	Provider  string          `yaml:"provider"` // "replicate" or "fal"
	Replicate ReplicateConfig `yaml:"replicate"`
	Fal       FalConfig       `yaml:"fal"`
}

type ReplicateConfig struct {
	Model                string  `yaml:"model"`
	AspectRatio          string  `yaml:"aspect_ratio"`
	NumInferenceSteps    int     `yaml:"num_inference_steps"`
	DisableSafetyChecker bool    `yaml:"disable_safety_checker"`
	Guidance             float64 `yaml:"guidance"`
	OutputQuality        int     `yaml:"output_quality"`
}

type FalConfig struct {
	Model               string `yaml:"model"`
	ImageSize           string `yaml:"image_size"`
	NumImages           int    `yaml:"num_images"`
	NumInferenceSteps   int    `yaml:"num_inference_steps"`
	EnableSafetyChecker bool   `yaml:"enable_safety_checker"`
}

type SpeechConfig struct {
	Model string `yaml:"model"`
}

type CatalogConfig struct {
	StoryTypes  []string `yaml:"story_types"`
	ImageStyles []string `yaml:"image_styles"`
	Voices      []string `yaml:"voices"`
	Languages   []string `yaml:"languages"`
	Tones       []string `yaml:"tones"`
	MusicTracks []string `yaml:"music_tracks"`
}

// Load reads config.yaml and fills in defaults for anything omitted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config usable without a config.yaml on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = getEnv("PORT", "8000")
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Server.Workers == 0 {
		c.Server.Workers = 2
	}
	if c.Server.QueueSize == 0 {
		c.Server.QueueSize = 16
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o"
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.OpenAI.MaxRetries == 0 {
		c.OpenAI.MaxRetries = 3
	}
	if c.Story.CharLimitMin == 0 {
		c.Story.CharLimitMin = 1500
	}
	if c.Story.CharLimitMax == 0 {
		c.Story.CharLimitMax = 2000
	}
	if c.Storyboard.MaxScenes == 0 {
		c.Storyboard.MaxScenes = 10
	}
	if c.Images.Provider == "" {
		c.Images.Provider = "replicate"
	}
	if c.Images.Replicate.Model == "" {
		c.Images.Replicate.Model = "black-forest-labs/flux-schnell"
		c.Images.Replicate.AspectRatio = "9:16"
		c.Images.Replicate.NumInferenceSteps = 4
		c.Images.Replicate.DisableSafetyChecker = true
		c.Images.Replicate.Guidance = 3.5
		c.Images.Replicate.OutputQuality = 90
	}
	if c.Images.Fal.Model == "" {
		c.Images.Fal.Model = "fal-ai/flux/schnell"
		c.Images.Fal.ImageSize = "portrait_16_9"
		c.Images.Fal.NumImages = 1
		c.Images.Fal.NumInferenceSteps = 4
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "tts-1"
	}
	if len(c.Catalog.StoryTypes) == 0 {
		c.Catalog.StoryTypes = []string{
			"Scary",
			"Mystery",
			"Bedtime",
			"Interesting History",
			"Urban Legends",
			"Motivational",
			"Fun Facts",
			"Long Form Jokes",
			"Life Pro Tips",
			"Philosophy",
			"Love",
		}
	}
	if len(c.Catalog.ImageStyles) == 0 {
		c.Catalog.ImageStyles = []string{"photorealistic", "cinematic", "anime", "comic-book", "pixar-art"}
	}
	if len(c.Catalog.Voices) == 0 {
		c.Catalog.Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}
	}
	if len(c.Catalog.Languages) == 0 {
		c.Catalog.Languages = []string{"English", "Spanish", "French", "German", "Portuguese", "Japanese", "Chinese"}
	}
	if len(c.Catalog.Tones) == 0 {
		c.Catalog.Tones = []string{"Neutral", "Dramatic", "Humorous", "Calm", "Energetic"}
	}
	if len(c.Catalog.MusicTracks) == 0 {
		c.Catalog.MusicTracks = []string{"none", "ambient", "suspense", "uplifting"}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
