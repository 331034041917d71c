package service

import (
	"context"
	"fmt"

	"femilyship-web/internal/cache"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"
)

// TopicService reads topics through the response cache.
type TopicService struct {
	api      ContentAPI
	cache    *cache.Cache
	renderer *Renderer
	log      logger.Logger
}

// NewTopicService creates a new TopicService. c may be nil to disable caching.
func NewTopicService(client ContentAPI, c *cache.Cache, log logger.Logger) *TopicService {
	return &TopicService{
		api:      client,
		cache:    c,
		renderer: NewRenderer(),
		log:      log,
	}
}

// ListTopics returns all topics in server order.
func (s *TopicService) ListTopics(ctx context.Context) ([]data.Topic, error) {
	return fetchCached(ctx, s.cache, s.log, topicsKey, s.api.ListTopics)
}

// GetTopic returns a topic with its essays, each with content rendered to HTML.
// The cached topic is left untouched.
func (s *TopicService) GetTopic(ctx context.Context, id int64) (*data.Topic, error) {
	cached, err := fetchCached(ctx, s.cache, s.log, topicKey(id), func(ctx context.Context) (*data.Topic, error) {
		return s.api.GetTopic(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	topic := *cached
	topic.Essays = make([]data.Essay, len(cached.Essays))
	for i, essay := range cached.Essays {
		html, err := s.renderer.Render(essay.Content)
		if err != nil {
			s.log.Error(err, fmt.Sprintf("Failed to render essay %d in topic %d", essay.ID, id))
		}
		essay.HTMLContent = html
		topic.Essays[i] = essay
	}
	return &topic, nil
}
