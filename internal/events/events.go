// Package events publishes domain events (follows, posts, likes, comments) for
// downstream consumers. Publishing never blocks or fails a request.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

type Type string

const (
	UserRegistered Type = "user.registered"
	UserFollowed   Type = "user.followed"
	UserUnfollowed Type = "user.unfollowed"
	PostCreated    Type = "post.created"
	PostDeleted    Type = "post.deleted"
	PostLiked      Type = "post.liked"
	PostUnliked    Type = "post.unliked"
	CommentAdded   Type = "comment.added"
)

type Event struct {
	Type      Type      `json:"type"`
	ActorID   string    `json:"actorId"`
	SubjectID string    `json:"subjectId"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and only logs a failure.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logs.LogJSON("WARN", "Event publish failed", map[string]interface{}{
			"error":  err.Error(),
			"userID": e.ActorID,
			"extra":  string(e.Type) + " " + e.SubjectID,
		})
	}
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logs.LogJSON("ERROR", "Kafka delivery failed", map[string]interface{}{
						"error": err.Error(),
						"extra": len(messages),
					})
				}
			},
		},
	}
}

// Publish keys messages by subject so events about one post or user stay ordered.
func (k *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.SubjectID),
		Value: value,
		Time:  e.At,
	})
	return errors.Wrap(err, "write event")
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []Type {
	var out []Type
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}
