// Package upload implements the submission trigger and simulated processor
// behind the institution upload and verifier verify pages.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/authentiq/portal/internal/metrics"
	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/notify"
	"github.com/authentiq/portal/internal/results"
	"github.com/authentiq/portal/internal/staging"
)

// DefaultDelay is the fixed simulated processing time of both flows.
const DefaultDelay = 3000 * time.Millisecond

var (
	// ErrNothingStaged is returned when a submission finds an empty stager.
	ErrNothingStaged = errors.New("no files selected")
	// ErrBusy is returned when a batch is already being processed.
	ErrBusy = errors.New("submission already in progress")
	// ErrInvalidDocumentType is returned for a document type outside the fixed set.
	ErrInvalidDocumentType = errors.New("invalid document type")
)

// Canned texts of the simulated outcome.
const (
	verifiedInstitution = "MIT"
	verifiedConfidence  = 98
	verifiedNote        = "Document successfully verified against institutional records."
)

// NothingStagedNotification is published when an empty submission is attempted.
var NothingStagedNotification = models.Destructive("No files selected", "Please select files to upload first.")

// Status represents the job processing status.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
)

// Job is one submitted batch.
type Job struct {
	ID           string              `json:"id"`
	Flow         models.Flow         `json:"flow"`
	Files        []models.StagedFile `json:"files"`
	DocumentType models.DocumentType `json:"documentType,omitempty"`
	Status       Status              `json:"status"`
	ResultID     string              `json:"resultId,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
}

// Options configures a Desk. Zero values select defaults.
type Options struct {
	Delay   time.Duration
	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Desk is the Idle/Busy state machine of one visit.
type Desk struct {
	flow    models.Flow
	delay   time.Duration
	clock   clockwork.Clock
	log     *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	stager *staging.Stager
	board  *results.Board
	feed   *notify.Feed

	mu      sync.RWMutex
	state   models.DeskState
	docType models.DocumentType
	jobs    map[string]*Job
}

// NewDesk creates an idle desk for the given flow.
func NewDesk(flow models.Flow, stager *staging.Stager, board *results.Board, feed *notify.Feed, opts Options) *Desk {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Desk{
		flow:    flow,
		delay:   opts.Delay,
		clock:   opts.Clock,
		log:     opts.Logger.With("component", "desk", "flow", string(flow)),
		metrics: opts.Metrics,
		tracer:  otel.Tracer("github.com/authentiq/portal/internal/upload"),
		stager:  stager,
		board:   board,
		feed:    feed,
		state:   models.DeskIdle,
		docType: models.DocumentTypeCertificate,
		jobs:    make(map[string]*Job),
	}
}

// Submit starts processing the staged batch. The desk is busy as soon as
// Submit returns a job and goes back to idle once the delay has elapsed.
func (d *Desk) Submit(ctx context.Context) (*Job, error) {
	d.mu.Lock()
	if d.state == models.DeskBusy {
		d.mu.Unlock()
		d.metrics.IncrementSubmission(string(d.flow), "busy")
		d.log.Debug("submission rejected, desk busy")
		return nil, ErrBusy
	}

	files := d.stager.Files()
	if len(files) == 0 {
		d.mu.Unlock()
		d.metrics.IncrementSubmission(string(d.flow), "nothing_staged")
		d.feed.Publish(NothingStagedNotification)
		return nil, ErrNothingStaged
	}

	job := &Job{
		ID:        uuid.New().String(),
		Flow:      d.flow,
		Files:     files,
		Status:    StatusProcessing,
		CreatedAt: d.clock.Now(),
	}
	if d.flow == models.FlowUpload {
		job.DocumentType = d.docType
	}
	d.jobs[job.ID] = job
	d.state = models.DeskBusy
	snapshot := *job
	d.mu.Unlock()

	// The span covers the processing window, so it must outlive the request.
	_, span := d.tracer.Start(context.WithoutCancel(ctx), "desk.process",
		trace.WithAttributes(
			attribute.String("job.id", job.ID),
			attribute.String("flow", string(d.flow)),
			attribute.Int("files", len(files)),
		))

	d.metrics.IncrementSubmission(string(d.flow), "accepted")
	d.metrics.DeskBusy()
	d.feed.PublishState(models.DeskBusy)
	d.log.Info("batch submitted", "job", job.ID[:8], "files", len(files), "delay", d.delay)

	d.clock.AfterFunc(d.delay, func() {
		d.complete(job, span)
	})

	return &snapshot, nil
}

// complete runs once per batch when the timer fires. It never fails.
func (d *Desk) complete(job *Job, span trace.Span) {
	defer span.End()

	var (
		note     models.Notification
		resultID string
	)
	switch d.flow {
	case models.FlowVerify:
		result := models.VerificationResult{
			ID:                uuid.New().String(),
			FileName:          job.Files[0].Name,
			StatusLabel:       models.StatusAccepted,
			ConfidencePercent: verifiedConfidence,
			Institution:       verifiedInstitution,
			Note:              verifiedNote,
			Timestamp:         d.clock.Now().Format("2006-01-02 15:04:05"),
		}
		d.board.Present(result)
		d.metrics.IncrementResults()
		resultID = result.ID
		note = models.Info("Verification Complete!", "Document has been successfully verified.")
	default:
		note = models.Info("Upload Successful!",
			fmt.Sprintf("%d documents uploaded and processing started.", len(job.Files)))
	}
	d.stager.Clear()

	now := d.clock.Now()
	d.mu.Lock()
	job.Status = StatusComplete
	job.ResultID = resultID
	job.CompletedAt = &now
	d.state = models.DeskIdle
	d.mu.Unlock()

	d.metrics.DeskIdle()
	d.metrics.ObserveProcessing(string(d.flow), now.Sub(job.CreatedAt))
	d.feed.PublishState(models.DeskIdle)
	d.feed.Publish(note)
	d.log.Info("batch processed", "job", job.ID[:8], "files", len(job.Files))
}

// Flow returns the flow the desk drives.
func (d *Desk) Flow() models.Flow {
	return d.flow
}

// Delay returns the simulated processing time.
func (d *Desk) Delay() time.Duration {
	return d.delay
}

// State returns the current desk state.
func (d *Desk) State() models.DeskState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// DocumentType returns the selected document type.
func (d *Desk) DocumentType() models.DocumentType {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.docType
}

// SetDocumentType selects the document type recorded on later jobs.
func (d *Desk) SetDocumentType(t models.DocumentType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, t)
	}
	d.mu.Lock()
	d.docType = t
	d.mu.Unlock()
	return nil
}

// GetJob retrieves a job by ID.
func (d *Desk) GetJob(id string) (Job, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	job, ok := d.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs returns every tracked job, oldest first.
func (d *Desk) Jobs() []Job {
	d.mu.RLock()
	out := make([]Job, 0, len(d.jobs))
	for _, job := range d.jobs {
		out = append(out, *job)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CleanupOldJobs removes completed jobs older than maxAge.
func (d *Desk) CleanupOldJobs(maxAge time.Duration) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	cutoff := d.clock.Now().Add(-maxAge)
	for id, job := range d.jobs {
		if job.Status == StatusComplete && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(d.jobs, id)
			removed++
		}
	}
	return removed
}
