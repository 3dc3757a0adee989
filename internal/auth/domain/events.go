package domain

import (
	"context"
	"time"
)

const UserRegisteredEventType = "user.registered"

type UserRegisteredEvent struct {
	UserID       uint      `json:"user_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event UserRegisteredEvent) error
}
