package service

import (
	"context"

	"femilyship-web/internal/data"
)

// ContentAPI defines the remote API calls the services depend on.
type ContentAPI interface {
	Login(ctx context.Context, username, password string) (*data.AuthResponse, error)
	Signup(ctx context.Context, username, password string) (*data.AuthResponse, error)
	ListTopics(ctx context.Context) ([]data.Topic, error)
	GetTopic(ctx context.Context, id int64) (*data.Topic, error)
	GetEssay(ctx context.Context, id int64) (*data.Essay, error)
	UpdateEssay(ctx context.Context, id int64, in data.EssayInput) error
	DeleteEssay(ctx context.Context, id int64) error
}

// Session defines the session operations the services depend on.
type Session interface {
	Login(ctx context.Context, token, username string) error
	Logout(ctx context.Context) error
	CurrentUser() (string, bool)
}

// AuthServicer defines the interface for logging in and out.
type AuthServicer interface {
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

// TopicServicer defines the interface for reading topics.
type TopicServicer interface {
	ListTopics(ctx context.Context) ([]data.Topic, error)
	GetTopic(ctx context.Context, id int64) (*data.Topic, error)
}

// EssayServicer defines the interface for reading and changing essays.
type EssayServicer interface {
	GetEssay(ctx context.Context, id int64) (*data.Essay, error)
	CanModify(essay *data.Essay) bool
	CheckOwner(essay *data.Essay) error
	UpdateEssay(ctx context.Context, essay *data.Essay, in data.EssayInput) error
	DeleteEssay(ctx context.Context, essay *data.Essay) error
}
