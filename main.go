package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"faceless_videos/ai"
	"faceless_videos/config"
	"faceless_videos/images"
	"faceless_videos/jobs"
	"faceless_videos/pipeline"
	"faceless_videos/server"
	"faceless_videos/speech"
	"faceless_videos/storage"
	"faceless_videos/story"
	"faceless_videos/video"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Printf("config.yaml not loaded (%v), using defaults", err)
		cfg = config.Default()
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")

	textClient := ai.NewClient(apiKey, baseURL, cfg.OpenAI.Model, cfg.OpenAI.Temperature, cfg.OpenAI.MaxRetries)
	generator := story.NewGenerator(textClient, cfg.Story.CharLimitMin, cfg.Story.CharLimitMax, cfg.Storyboard.MaxScenes)
	narrator := speech.NewClient(apiKey, baseURL, cfg.Speech.Model)

	var imageGen images.Generator
	switch cfg.Images.Provider {
	case "fal":
		imageGen = images.NewFalClient(os.Getenv("FAL_KEY"), images.FalConfig{
			Model:               cfg.Images.Fal.Model,
			ImageSize:           cfg.Images.Fal.ImageSize,
			NumImages:           cfg.Images.Fal.NumImages,
			NumInferenceSteps:   cfg.Images.Fal.NumInferenceSteps,
			EnableSafetyChecker: cfg.Images.Fal.EnableSafetyChecker,
		})
	default:
		imageGen = images.NewReplicateClient(os.Getenv("REPLICATE_API_TOKEN"), images.ReplicateConfig{
			Model:                cfg.Images.Replicate.Model,
			AspectRatio:          cfg.Images.Replicate.AspectRatio,
			NumInferenceSteps:    cfg.Images.Replicate.NumInferenceSteps,
			DisableSafetyChecker: cfg.Images.Replicate.DisableSafetyChecker,
			Guidance:             cfg.Images.Replicate.Guidance,
			OutputQuality:        cfg.Images.Replicate.OutputQuality,
		})
	}

	layout := storage.NewLayout(cfg.Server.DataDir)
	library := storage.NewLibrary(layout, video.MediaDuration)
	manager := jobs.NewManager()
	pool := jobs.NewPool(cfg.Server.Workers, cfg.Server.QueueSize)
	defer pool.Stop()

	runner := pipeline.NewRunner(
		generator,
		imageGen,
		video.NewClipBuilder(narrator),
		video.NewAssembler(),
		layout,
		manager,
	)

	srv := server.New(cfg, runner, manager, pool, layout, library)
	router := srv.Router()

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
