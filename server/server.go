package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"faceless_videos/config"
	"faceless_videos/jobs"
	"faceless_videos/pipeline"
	"faceless_videos/storage"
)

// Server wires the HTTP surface to the job pool and the pipeline.
type Server struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	jobs    *jobs.Manager
	pool    *jobs.Pool
	layout  *storage.Layout
	library *storage.Library
}

func New(cfg *config.Config, runner *pipeline.Runner, manager *jobs.Manager, pool *jobs.Pool, layout *storage.Layout, library *storage.Library) *Server {
	return &Server{
		cfg:     cfg,
		runner:  runner,
		jobs:    manager,
		pool:    pool,
		layout:  layout,
		library: library,
	}
}

// Router builds the gin engine with all API routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/config", s.getConfig)
		api.POST("/generate", s.generate)
		api.POST("/script", s.script)
		api.POST("/ideas", s.ideas)
		api.POST("/generate_from_script", s.generateFromScript)
		api.GET("/status/:job_id", s.status)
		api.GET("/video/:job_id", s.video)
		api.GET("/video_file/:story_type/:title", s.videoFile)
		api.GET("/videos", s.videos)
		api.GET("/video_details/:story_type/:title", s.videoDetails)
		api.DELETE("/delete_video/:story_type/:id", s.deleteVideo)
	}
	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"storyTypes":  s.cfg.Catalog.StoryTypes,
		"imageStyles": s.cfg.Catalog.ImageStyles,
		"voices":      s.cfg.Catalog.Voices,
		"languages":   s.cfg.Catalog.Languages,
		"tones":       s.cfg.Catalog.Tones,
		"musicTracks": s.cfg.Catalog.MusicTracks,
	})
}

func (s *Server) generate(c *gin.Context) {
	var req pipeline.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	job := s.jobs.Create()
	err := s.pool.Submit(func(ctx context.Context) {
		s.runner.Run(ctx, job.ID, req)
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Job queue is full. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": job.ID})
}

func (s *Server) script(c *gin.Context) {
	var req pipeline.ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	project, err := s.runner.BuildScript(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) ideas(c *gin.Context) {
	var req struct {
		Prompt   string `json:"prompt" binding:"required"`
		Language string `json:"language"`
		Tone     string `json:"tone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ideas, err := s.runner.GenerateIdeas(req.Prompt, req.Language, req.Tone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

func (s *Server) generateFromScript(c *gin.Context) {
	var req pipeline.FromScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	job := s.jobs.Create()
	err := s.pool.Submit(func(ctx context.Context) {
		s.runner.RunFromScript(ctx, job.ID, req)
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Job queue is full. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": job.ID})
}

func (s *Server) status(c *gin.Context) {
	job, err := s.jobs.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) video(c *gin.Context) {
	job, err := s.jobs.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}
	if job.VideoPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Video not ready or not found"})
		return
	}
	if _, err := os.Stat(job.VideoPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Video not ready or not found"})
		return
	}
	c.Header("Content-Type", "video/mp4")
	c.File(job.VideoPath)
}

func (s *Server) videoFile(c *gin.Context) {
	dir := s.layout.StoryDir(c.Param("story_type"), c.Param("title"))
	path := s.layout.VideoPath(dir)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Video not found"})
		return
	}
	c.Header("Content-Type", "video/mp4")
	c.File(path)
}

func (s *Server) videos(c *gin.Context) {
	entries, err := s.library.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": entries})
}

func (s *Server) videoDetails(c *gin.Context) {
	details, err := s.library.Details(c.Param("story_type"), c.Param("title"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (s *Server) deleteVideo(c *gin.Context) {
	err := s.library.Delete(c.Param("story_type"), c.Param("id"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
