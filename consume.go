package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumeanalyzer/internal/analysis"
	"github.com/muhammadolammi/resumeanalyzer/internal/database"
	"github.com/muhammadolammi/resumeanalyzer/internal/extract"
	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
)

const resultWriteAttempts = 3

var retryBackoff = 500 * time.Millisecond

// retry retries fn up to attempts times, waiting a little longer after each
// failure.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < attempts-1 {
			time.Sleep(retryBackoff * time.Duration(i+1))
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// sessionDocument describes a stored resume. The stored mime type decides
// the format, the file name is the fallback; a resume matching neither is
// reported as unsupported in the ranking.
func (workerConfig *WorkerConfig) sessionDocument(r database.ListSessionResumesRow) analysis.Document {
	format, err := extract.FormatFromMime(r.Mime)
	if err != nil {
		format, _ = extract.FormatFromFilename(r.OriginalFilename)
	}
	name := r.OriginalFilename
	if name == "" {
		name = r.ObjectKey
	}
	return analysis.Document{
		Name:   name,
		Format: format,
		Fetch: func(ctx context.Context) ([]byte, error) {
			return retry(workerConfig.DownloadTries, func() ([]byte, error) {
				return workerConfig.Objects.Download(ctx, r.ObjectKey)
			})
		},
	}
}

// rankSession ranks every resume of a session against its job description
// and stores the ranking. The job description is read from the sessions
// table, not from the message. Resumes are downloaded and analyzed one at a
// time.
func rankSession(ctx context.Context, session Session, workerConfig *WorkerConfig) error {
	stored, err := workerConfig.Store.GetSession(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("error loading session %s: %w", session.ID, err)
	}

	resumes, err := workerConfig.Store.ListSessionResumes(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("error getting resumes for session %s: %w", session.ID, err)
	}
	if len(resumes) == 0 {
		return fmt.Errorf("session %s has no resumes", session.ID)
	}

	docs := make([]analysis.Document, 0, len(resumes))
	for _, r := range resumes {
		docs = append(docs, workerConfig.sessionDocument(r))
	}

	ranking, err := workerConfig.Analyzer.Rank(ctx, docs, stored.JobDescription)
	if err != nil {
		return err
	}

	skillsJSON, err := json.Marshal(ranking.JobSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal job skills: %w", err)
	}
	resultsJSON, err := json.Marshal(ranking.Candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking results: %w", err)
	}

	_, err = retry(resultWriteAttempts, func() (any, error) {
		return nil, workerConfig.Store.CreateOrUpdateRankingResults(ctx, database.CreateOrUpdateRankingResultsParams{
			JobSkills: skillsJSON,
			Results:   resultsJSON,
			SessionID: session.ID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save ranking after retries: %w", err)
	}

	logger.Ctx(ctx).Info().
		Int("resumes", len(ranking.Candidates)).
		Msg("session ranked")
	return nil
}

// handleSession processes one queue message end to end and records the
// outcome on the session.
func (workerConfig *WorkerConfig) handleSession(ctx context.Context, body []byte) {
	session := Session{}
	if err := json.Unmarshal(body, &session); err != nil {
		logger.Error().Err(err).Msg("error unmarshalling message body")
		if session.ID != uuid.Nil {
			workerConfig.setStatus(ctx, session.ID, statusFailed, "analysis failed")
		}
		return
	}

	ctx = logger.WithContext(ctx, map[string]any{"session_id": session.ID.String()})
	logger.Ctx(ctx).Info().Msg("processing session")
	workerConfig.setStatus(ctx, session.ID, statusProcessing, "analysis started")

	if err := rankSession(ctx, session, workerConfig); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error ranking session")
		message := "analysis failed"
		if errors.Is(err, analysis.ErrMissingJobDescription) {
			message = analysis.ErrMissingJobDescription.Error()
		}
		workerConfig.setStatus(ctx, session.ID, statusFailed, message)
		return
	}

	workerConfig.setStatus(ctx, session.ID, statusCompleted, "analysis completed")
}

func (workerConfig *WorkerConfig) setStatus(ctx context.Context, id uuid.UUID, status, message string) {
	err := workerConfig.Store.SetSessionStatus(ctx, database.SetSessionStatusParams{
		Status: status,
		ID:     id,
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("status", status).Msg("failed to update session status")
	}

	err = workerConfig.Updates.Publish(SessionUpdate{
		SessionID: id,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to publish update")
	}
}

func worker(ctx context.Context, id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	log := logger.Logger.With().Int("worker", id+1).Logger()

	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.Error().Err(err).Msg("error dialling rabbitmq")
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("error opening rabbitmq channel")
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		sessionsQueue,
		true,  // durable
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to declare queue")
		return
	}

	msgs, err := ch.Consume(
		sessionsQueue,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Error().Err(err).Msg("error consuming rabbitmq messages")
		return
	}

	log.Info().Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopping")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Info().Msg("delivery channel closed")
				return
			}
			// a started session is finished even during shutdown
			workerConfig.handleSession(context.WithoutCancel(ctx), msg.Body)
		}
	}
}

// StartConsumerWorkerPool blocks until every consumer has stopped, either
// because ctx is done or because its connection went away.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		go worker(ctx, i, workerConfig, &wg)
	}
	wg.Wait()
}
