// Package history persists agent conversations in Redis, keyed by thread id,
// so a session survives process restarts. Store satisfies langchaingo's
// schema.ChatMessageHistory and plugs straight into a conversation buffer.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const keyPrefix = "agent:history:"

var threadRe = regexp.MustCompile(`^[A-Za-z0-9 ._!-]{1,128}$`)

var ErrInvalidThreadID = errors.New("invalid thread id")

type Store struct {
	client redis.Cmdable
	thread string
	ttl    time.Duration
}

var _ schema.ChatMessageHistory = (*Store)(nil)

// NewStore scopes a history to one thread id. A ttl of zero keeps the
// history forever; otherwise every write refreshes the expiry.
func NewStore(client redis.Cmdable, thread string, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if !threadRe.MatchString(thread) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidThreadID, thread)
	}
	return &Store{client: client, thread: thread, ttl: ttl}, nil
}

func (s *Store) key() string { return keyPrefix + s.thread }

func (s *Store) AddMessage(ctx context.Context, msg llms.ChatMessage) error {
	b, err := json.Marshal(llms.ConvertChatMessageToModel(msg))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key(), b)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *Store) AddUserMessage(ctx context.Context, text string) error {
	return s.AddMessage(ctx, llms.HumanChatMessage{Content: text})
}

func (s *Store) AddAIMessage(ctx context.Context, text string) error {
	return s.AddMessage(ctx, llms.AIChatMessage{Content: text})
}

// Messages returns the whole thread in insertion order.
func (s *Store) Messages(ctx context.Context) ([]llms.ChatMessage, error) {
	vals, err := s.client.LRange(ctx, s.key(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make([]llms.ChatMessage, 0, len(vals))
	for _, v := range vals {
		var m llms.ChatMessageModel
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		out = append(out, m.ToChatMessage())
	}
	return out, nil
}

// SetMessages replaces the thread atomically.
func (s *Store) SetMessages(ctx context.Context, msgs []llms.ChatMessage) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key())
	for _, msg := range msgs {
		b, err := json.Marshal(llms.ConvertChatMessageToModel(msg))
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		pipe.RPush(ctx, s.key(), b)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
