package jobs

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ErrNotFound is returned when a job id is unknown.
var ErrNotFound = errors.New("job not found")

// Job tracks one end-to-end generation run. Records are created on
// submission and never deleted automatically.
type Job struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Step      string `json:"step"`
	Error     string `json:"error,omitempty"`
	VideoPath string `json:"video_path,omitempty"`
	StoryDir  string `json:"story_dir,omitempty"`
}

// Manager is the job table shared between the generation workers (sole
// writer per job) and any number of concurrent status readers.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewManager() *Manager {
	return &Manager{jobs: make(map[string]*Job)}
}

// Create registers a fresh pending job and returns it.
func (m *Manager) Create() *Job {
	job := &Job{
		ID:     uuid.NewString(),
		Status: StatusPending,
		Step:   "Initializing job...",
	}
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return &Job{ID: job.ID, Status: job.Status, Step: job.Step}
}

// Update mutates the fields present; empty step and errMsg leave the
// stored values untouched.
func (m *Manager) Update(id, status, step, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	if step != "" {
		job.Step = step
	}
	if errMsg != "" {
		job.Error = errMsg
	}
}

// SetResult records the finished artifacts for a job.
func (m *Manager) SetResult(id, videoPath, storyDir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.VideoPath = videoPath
		job.StoryDir = storyDir
	}
}

// Get returns a copy of the job record, or ErrNotFound.
func (m *Manager) Get(id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *job, nil
}
