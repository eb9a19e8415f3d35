package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/docsift/docsift/internal/report"
)

// JobStatus represents the state of a batch analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusFitting    JobStatus = "fitting"
	StatusScoring    JobStatus = "scoring"
	StatusReporting  JobStatus = "reporting"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single batch analysis.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Persona     string `json:"persona"`
	JobToBeDone string `json:"job_to_be_done"`

	Progress Progress `json:"progress"`

	BatchHash string    `json:"batch_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	inputs []Input
	result *report.Result
	errors []string
}

// Progress tracks batch analysis progress.
type Progress struct {
	TotalDocuments int      `json:"total_documents"`
	Sections       int      `json:"sections"`
	Subsections    int      `json:"subsections"`
	Errors         []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error or warning.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records how much the analysis produced.
func (j *Job) SetCounts(documents, sections, subsections int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalDocuments = documents
	j.Progress.Sections = sections
	j.Progress.Subsections = subsections
	j.UpdatedAt = time.Now()
}

// SetInputs sets the raw batch files for processing.
func (j *Job) SetInputs(inputs []Input) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inputs = inputs
}

// Inputs returns the raw batch files.
func (j *Job) Inputs() []Input {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputs
}

// SetResult stores the finished report and releases the input bytes.
func (j *Job) SetResult(r *report.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.inputs = nil
	j.UpdatedAt = time.Now()
}

// Result returns the finished report, or nil while the job is running.
func (j *Job) Result() *report.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Persona     string    `json:"persona"`
	JobToBeDone string    `json:"job_to_be_done"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Persona:     j.Persona,
		JobToBeDone: j.JobToBeDone,
		Progress: Progress{
			TotalDocuments: j.Progress.TotalDocuments,
			Sections:       j.Progress.Sections,
			Subsections:    j.Progress.Subsections,
			Errors:         errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// BatchHashHex computes SHA-256 over the batch content plus the query
// and returns a hex string. Used as a stable job identifier.
func BatchHashHex(inputs []Input, persona, job string) string {
	h := sha256.New()
	h.Write([]byte(persona))
	h.Write([]byte{0})
	h.Write([]byte(job))
	for _, in := range inputs {
		h.Write([]byte{0})
		h.Write([]byte(in.Filename))
		h.Write([]byte{0})
		h.Write(in.Data)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
