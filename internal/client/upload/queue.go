package upload

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound   = errors.New("upload task not found")
	ErrTaskNotPending = errors.New("only pending uploads can be removed")
)

const lastModifiedLayout = "2006-01-02"

// Queue is the ordered list of selected files. Every change swaps in a new
// slice, so snapshots handed out by Tasks are never modified afterwards.
type Queue struct {
	mu    sync.Mutex
	tasks []models.UploadTask
	newID func() string
}

func NewQueue() *Queue {
	return &Queue{newID: uuid.NewString}
}

// Add validates the candidates and appends the accepted ones as pending
// tasks in the given order.
func (q *Queue) Add(cands ...Candidate) ([]models.UploadTask, []Rejection) {
	var (
		added    []models.UploadTask
		rejected []Rejection
	)
	for _, c := range cands {
		if err := Validate(c); err != nil {
			rejected = append(rejected, Rejection{Candidate: c, Err: err})
			continue
		}
		added = append(added, q.newTask(c))
	}

	if len(added) > 0 {
		q.mu.Lock()
		next := make([]models.UploadTask, 0, len(q.tasks)+len(added))
		next = append(next, q.tasks...)
		next = append(next, added...)
		q.tasks = next
		q.mu.Unlock()
	}
	return added, rejected
}

func (q *Queue) newTask(c Candidate) models.UploadTask {
	return models.UploadTask{
		ID:       q.newID(),
		Path:     c.Path,
		Name:     c.Name,
		MimeType: c.MimeType,
		Size:     c.Size,
		ModTime:  c.ModTime,
		Progress: models.ProgressQueued,
		Status:   models.UploadPending,
		Metadata: models.UploadMetadata{
			Type:         c.MimeType,
			Size:         models.FormatSize(c.Size),
			LastModified: c.ModTime.Format(lastModifiedLayout),
		},
	}
}

// Remove drops a task that has not started yet.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tasks {
		if t.ID != id {
			continue
		}
		if t.Status != models.UploadPending {
			return ErrTaskNotPending
		}
		next := make([]models.UploadTask, 0, len(q.tasks)-1)
		next = append(next, q.tasks[:i]...)
		next = append(next, q.tasks[i+1:]...)
		q.tasks = next
		return nil
	}
	return ErrTaskNotFound
}

// Tasks returns a snapshot of the queue.
func (q *Queue) Tasks() []models.UploadTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.UploadTask(nil), q.tasks...)
}

// Pending returns the tasks still waiting, in selection order.
func (q *Queue) Pending() []models.UploadTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []models.UploadTask
	for _, t := range q.tasks {
		if t.Status == models.UploadPending {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the current state of one task.
func (q *Queue) Get(id string) (models.UploadTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.UploadTask{}, false
}

// update applies fn to a copy of task id and swaps in a new list. It returns
// the updated task.
func (q *Queue) update(id string, fn func(*models.UploadTask)) (models.UploadTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tasks {
		if t.ID != id {
			continue
		}
		fn(&t)
		next := append([]models.UploadTask(nil), q.tasks...)
		next[i] = t
		q.tasks = next
		return t, true
	}
	return models.UploadTask{}, false
}
