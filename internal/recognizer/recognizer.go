// Package recognizer wraps named-entity recognition behind a small interface
// so resume parsing does not depend on a particular model.
package recognizer

import (
	"context"
	"errors"
	"iter"
)

// Entity groups emitted by recognizers.
const (
	GroupPerson       = "PER"
	GroupOrganization = "ORG"
	GroupLocation     = "LOC"
	GroupMisc         = "MISC"
)

// ErrRecognition wraps failures of the underlying model.
var ErrRecognition = errors.New("entity recognition failed")

// Entity is a recognized span aggregated at word or phrase level.
type Entity struct {
	Group string  `json:"entity_group"`
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Recognizer labels spans of text. The returned sequence is lazy: the model
// may not run until iteration starts, and iteration may stop early.
type Recognizer interface {
	Recognize(ctx context.Context, text string) iter.Seq2[Entity, error]
}

// Static returns the same entities for every text. It backs tests and the
// offline mode used when no model is configured.
type Static []Entity

func (s Static) Recognize(ctx context.Context, _ string) iter.Seq2[Entity, error] {
	return func(yield func(Entity, error) bool) {
		for _, e := range s {
			if err := ctx.Err(); err != nil {
				yield(Entity{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Func adapts a plain function to Recognizer.
type Func func(ctx context.Context, text string) ([]Entity, error)

func (f Func) Recognize(ctx context.Context, text string) iter.Seq2[Entity, error] {
	return func(yield func(Entity, error) bool) {
		entities, err := f(ctx, text)
		if err != nil {
			yield(Entity{}, errors.Join(ErrRecognition, err))
			return
		}
		for _, e := range entities {
			if !yield(e, nil) {
				return
			}
		}
	}
}
