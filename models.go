package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumeanalyzer/internal/analysis"
	"github.com/muhammadolammi/resumeanalyzer/internal/database"
)

const (
	sessionsQueue         = "sessions"
	sessionUpdateExchange = "session_updates"
)

// Session statuses written to the sessions table and published as updates.
const (
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

type WorkerConfig struct {
	Store         SessionStore
	Objects       ObjectStore
	Analyzer      *analysis.Analyzer
	RABBITMQUrl   string
	Updates       UpdatePublisher
	DownloadTries int
}

// Session is the recruiter session message consumed from the queue.
type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}

// SessionUpdate is published on every status change of a session.
type SessionUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStore is the part of the database the worker needs.
type SessionStore interface {
	GetSession(ctx context.Context, id uuid.UUID) (database.Session, error)
	ListSessionResumes(ctx context.Context, sessionID uuid.UUID) ([]database.ListSessionResumesRow, error)
	SetSessionStatus(ctx context.Context, arg database.SetSessionStatusParams) error
	CreateOrUpdateRankingResults(ctx context.Context, arg database.CreateOrUpdateRankingResultsParams) error
}

type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type UpdatePublisher interface {
	Publish(update SessionUpdate) error
}
