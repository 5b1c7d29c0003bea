package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumeanalyzer/internal/config"
)

// r2Store downloads uploaded resumes from a Cloudflare R2 bucket.
type r2Store struct {
	client *s3.Client
	bucket string
}

func newR2Store(awsConfig aws.Config, r2 config.R2Config) *r2Store {
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2.Endpoint())
	})
	return &r2Store{client: client, bucket: r2.Bucket}
}

func (r *r2Store) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// amqpPublisher sends session updates to the topic exchange, routed by
// session id.
type amqpPublisher struct {
	conn *amqp.Connection
}

func (p *amqpPublisher) Publish(update SessionUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return ch.Publish(
		sessionUpdateExchange,
		sessionRoutingKey(update.SessionID.String()),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func sessionRoutingKey(sessionID string) string {
	return fmt.Sprintf("session.%s", sessionID)
}
