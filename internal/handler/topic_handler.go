package handler

import (
	"fmt"
	"net/http"

	"femilyship-web/internal/api"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"
	"femilyship-web/internal/middleware"
	"femilyship-web/internal/service"
	"femilyship-web/internal/session"
	"femilyship-web/internal/view"
)

// topicCard is a topic as shown on the home page.
type topicCard struct {
	Topic   data.Topic
	Preview string
}

// TopicHandler holds the dependencies for the home and topic pages.
type TopicHandler struct {
	renderer
	topics service.TopicServicer
	log    logger.Logger
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(ts service.TopicServicer, v *view.View, flash session.Flash, log logger.Logger) *TopicHandler {
	return &TopicHandler{
		renderer: renderer{view: v, flash: flash},
		topics:   ts,
		log:      log,
	}
}

// homeHandler lists all topics as cards.
func (h *TopicHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	topics, err := h.topics.ListTopics(r.Context())
	if err != nil {
		h.log.Error(err, "Failed to load topics")
		pageData := view.Page{
			"State": view.Failed("Failed to load topics. Please try again later.", "/"),
		}
		return h.render(w, r, statusFor(err), "home.html", pageData)
	}

	cards := make([]topicCard, 0, len(topics))
	for _, t := range topics {
		cards = append(cards, topicCard{Topic: t, Preview: service.Preview(t)})
	}
	pageData := view.Page{
		"Cards": cards,
	}
	return h.render(w, r, http.StatusOK, "home.html", pageData)
}

// topicHandler shows one topic and its essays.
func (h *TopicHandler) topicHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Topic not found.", Code: http.StatusNotFound}
	}
	retry := fmt.Sprintf("/topic/%d", id)

	topic, err := h.topics.GetTopic(r.Context(), id)
	if err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to load topic %d", id))
		message := "Failed to fetch topic details."
		if api.KindOf(err) == api.KindNotFound {
			message = "Topic not found."
		}
		pageData := view.Page{
			"State": view.Failed(message, retry),
		}
		return h.render(w, r, statusFor(err), "topic.html", pageData)
	}

	pageData := view.Page{
		"Topic": topic,
	}
	return h.render(w, r, http.StatusOK, "topic.html", pageData)
}
