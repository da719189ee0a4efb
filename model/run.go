package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobName string

const (
	JobVideos   JobName = "videos"
	JobComments JobName = "comments"
)

// JobRun is the record of one invocation of a job.
type JobRun struct {
	ID         uuid.UUID
	Job        JobName
	StatusCode int
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    json.RawMessage
}

func NewJobRun(job JobName, startedAt time.Time) *JobRun {
	return &JobRun{
		ID:        uuid.New(),
		Job:       job,
		StartedAt: startedAt,
	}
}
