package service

import (
	"context"
	"fmt"
	"strings"

	"femilyship-web/internal/api"
	"femilyship-web/internal/cache"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"
)

// Ownership errors wrap api.ErrAuth so they are handled like a server-side refusal.
var (
	ErrNotAuthenticated = fmt.Errorf("%w: you must be logged in to change essays", api.ErrAuth)
	ErrNotOwner         = fmt.Errorf("%w: only the author may change this essay", api.ErrAuth)
	ErrEmptyEssay       = &api.Error{Kind: api.KindValidation, Message: "Title and content are required"}
)

// EssayService reads essays and applies the ownership gate before changing them.
// The gate is advisory: the API re-checks ownership on every mutation.
type EssayService struct {
	api      ContentAPI
	session  Session
	cache    *cache.Cache
	renderer *Renderer
	log      logger.Logger
}

// NewEssayService creates a new EssayService. c may be nil to disable caching.
func NewEssayService(client ContentAPI, session Session, c *cache.Cache, log logger.Logger) *EssayService {
	return &EssayService{
		api:      client,
		session:  session,
		cache:    c,
		renderer: NewRenderer(),
		log:      log,
	}
}

// GetEssay returns an essay with its content rendered to HTML.
func (s *EssayService) GetEssay(ctx context.Context, id int64) (*data.Essay, error) {
	essay, err := fetchCached(ctx, s.cache, s.log, essayKey(id), func(ctx context.Context) (*data.Essay, error) {
		return s.api.GetEssay(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.Render(essay.Content)
	if err != nil {
		s.log.Error(err, fmt.Sprintf("Failed to render essay %d", id))
	}
	essay.HTMLContent = html
	return essay, nil
}

// CanModify reports whether the current user authored essay.
func (s *EssayService) CanModify(essay *data.Essay) bool {
	return s.CheckOwner(essay) == nil
}

// CheckOwner returns ErrNotAuthenticated or ErrNotOwner when the current user may not change essay.
func (s *EssayService) CheckOwner(essay *data.Essay) error {
	user, ok := s.session.CurrentUser()
	if !ok {
		return ErrNotAuthenticated
	}
	if essay == nil || essay.AuthorUsername != user {
		return ErrNotOwner
	}
	return nil
}

// UpdateEssay sends one PUT for essay if the current user owns it.
func (s *EssayService) UpdateEssay(ctx context.Context, essay *data.Essay, in data.EssayInput) error {
	if _, ok := s.session.CurrentUser(); !ok {
		return ErrNotAuthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return ErrEmptyEssay
	}
	if err := s.CheckOwner(essay); err != nil {
		return err
	}
	if in.TopicID == 0 {
		in.TopicID = essay.TopicID
	}

	if err := s.api.UpdateEssay(ctx, essay.ID, in); err != nil {
		return err
	}
	invalidate(s.cache, essayKey(essay.ID), topicKey(essay.TopicID), topicKey(in.TopicID), topicsKey)
	s.log.Info(fmt.Sprintf("Updated essay %d", essay.ID))
	return nil
}

// DeleteEssay sends one DELETE for essay if the current user owns it.
func (s *EssayService) DeleteEssay(ctx context.Context, essay *data.Essay) error {
	if err := s.CheckOwner(essay); err != nil {
		return err
	}

	if err := s.api.DeleteEssay(ctx, essay.ID); err != nil {
		return err
	}
	invalidate(s.cache, essayKey(essay.ID), topicKey(essay.TopicID), topicsKey)
	s.log.Info(fmt.Sprintf("Deleted essay %d", essay.ID))
	return nil
}
