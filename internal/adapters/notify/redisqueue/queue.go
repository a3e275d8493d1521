// Package redisqueue encola eventos en una lista de Redis codificados con
// msgpack. El consumidor (sistema de notificaciones) drena con BRPOP.
package redisqueue

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"profile-visibility/internal/ports/notify"
)

const DefaultQueue = "notify:events"

type Queue struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultQueue
	}
	return &Queue{client: client, key: key}
}

func (q *Queue) Publish(ctx context.Context, ev notify.Event) error {
	payload, err := msgpack.Marshal(ev)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}
