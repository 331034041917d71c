package data

import (
	"encoding/json"
	"html/template"
)

// Credentials is the persisted session pair. Both fields are set or neither is.
type Credentials struct {
	Token    string
	Username string
}

// Valid reports whether both halves of the pair are present.
func (c Credentials) Valid() bool {
	return c.Token != "" && c.Username != ""
}

// Topic is a named grouping of essays as returned by the content API.
type Topic struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	AuthorUsername string  `json:"authorUsername"`
	Essays         []Essay `json:"essays"`
}

// UnmarshalJSON accepts the field names used by older API versions
// (name/title_topic, content_topic/description, pages).
func (t *Topic) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID             int64   `json:"id"`
		Title          string  `json:"title"`
		Name           string  `json:"name"`
		TitleTopic     string  `json:"title_topic"`
		Body           string  `json:"body"`
		ContentTopic   string  `json:"content_topic"`
		Description    string  `json:"description"`
		AuthorUsername string  `json:"authorUsername"`
		Essays         []Essay `json:"essays"`
		Pages          []Essay `json:"pages"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Title = firstNonEmpty(raw.Title, raw.Name, raw.TitleTopic)
	t.Body = firstNonEmpty(raw.Body, raw.ContentTopic, raw.Description)
	t.AuthorUsername = raw.AuthorUsername
	t.Essays = raw.Essays
	if t.Essays == nil {
		t.Essays = raw.Pages
	}
	return nil
}

// Essay is a single authored piece belonging to a topic.
type Essay struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	HTMLContent    template.HTML `json:"-"`
	AuthorUsername string        `json:"authorUsername"`
	TopicID        int64         `json:"topicId"`
}

// UnmarshalJSON accepts the title_essay/content_essay field names.
func (e *Essay) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID             int64  `json:"id"`
		Title          string `json:"title"`
		TitleEssay     string `json:"title_essay"`
		Content        string `json:"content"`
		ContentEssay   string `json:"content_essay"`
		AuthorUsername string `json:"authorUsername"`
		TopicID        int64  `json:"topicId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Title = firstNonEmpty(raw.Title, raw.TitleEssay)
	e.Content = firstNonEmpty(raw.Content, raw.ContentEssay)
	e.AuthorUsername = raw.AuthorUsername
	e.TopicID = raw.TopicID
	return nil
}

// EssayInput is the body sent when updating an essay.
type EssayInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	TopicID int64  `json:"topicId"`
}

// AuthRequest is the body of the login and signup calls.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by the login and signup calls.
// Servers disagree on the token field name, so all known variants are read.
type AuthResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	JWT         string `json:"jwt"`
	Success     *bool  `json:"success"`
	Message     string `json:"message"`
}

// BearerToken returns the first token field the server filled in.
func (r *AuthResponse) BearerToken() string {
	return firstNonEmpty(r.Token, r.AccessToken, r.JWT)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
