package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"femilyship-web/internal/logger"
	"femilyship-web/internal/service"
)

// SeoHandler serves robots.txt and a sitemap of the topic and essay pages.
type SeoHandler struct {
	topics  service.TopicServicer
	baseURL string
	log     logger.Logger
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public address of this front end.
func NewSeoHandler(ts service.TopicServicer, baseURL string, log logger.Logger) *SeoHandler {
	return &SeoHandler{topics: ts, baseURL: strings.TrimSuffix(baseURL, "/"), log: log}
}

// robotsHandler keeps crawlers away from the account and mutation routes.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /login")
	fmt.Fprintln(w, "Disallow: /register")
	fmt.Fprintln(w, "Disallow: /essay/*/edit")
	fmt.Fprintln(w, "Disallow: /essay/*/delete")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists the home page, every topic and every essay the topic list names.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.ListTopics(r.Context())
	if err != nil {
		h.log.Error(err, "Failed to load topics for sitemap")
		http.Error(w, "Failed to retrieve topics for sitemap", statusFor(err))
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: h.baseURL + "/"}},
	}
	for _, topic := range topics {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: fmt.Sprintf("%s/topic/%d", h.baseURL, topic.ID)})
		for _, essay := range topic.Essays {
			sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + essayURL(essay.ID)})
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		h.log.Error(err, "Failed to generate sitemap XML")
	}
}
