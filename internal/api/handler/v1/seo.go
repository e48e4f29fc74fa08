package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const sitemapEntryLimit = 200

type SEOBarRepository interface {
	FindIDs(ctx context.Context, limit int) ([]string, error)
}

type SEOPartyRepository interface {
	FindOpenIDs(ctx context.Context, limit int) ([]string, error)
}

// SEOHandler serves the crawler surface: robots.txt and a sitemap listing
// the public bar and party pages of the configured site.
type SEOHandler struct {
	siteURL   string
	barRepo   SEOBarRepository
	partyRepo SEOPartyRepository
}

func NewSEOHandler(siteURL string, barRepo SEOBarRepository, partyRepo SEOPartyRepository) *SEOHandler {
	return &SEOHandler{
		siteURL:   strings.TrimSuffix(siteURL, "/"),
		barRepo:   barRepo,
		partyRepo: partyRepo,
	}
}

func (h *SEOHandler) HandleRobots(ctx *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /bar-portal\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", h.siteURL)

	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

func (h *SEOHandler) HandleSitemap(ctx *gin.Context) {
	now := time.Now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	for _, path := range []string{"", "/bars", "/parties", "/login", "/register"} {
		writeSitemapURL(&b, h.siteURL+path, now)
	}

	barIDs, err := h.barRepo.FindIDs(ctx.Request.Context(), sitemapEntryLimit)
	if err == nil {
		for _, id := range barIDs {
			writeSitemapURL(&b, fmt.Sprintf("%s/bars/%s", h.siteURL, id), now)
		}
	}

	partyIDs, err := h.partyRepo.FindOpenIDs(ctx.Request.Context(), sitemapEntryLimit)
	if err == nil {
		for _, id := range partyIDs {
			writeSitemapURL(&b, fmt.Sprintf("%s/parties/%s", h.siteURL, id), now)
		}
	}

	b.WriteString("</urlset>\n")

	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(b.String()))
}

func writeSitemapURL(b *strings.Builder, loc, lastmod string) {
	b.WriteString("  <url>\n")
	fmt.Fprintf(b, "    <loc>%s</loc>\n", loc)
	fmt.Fprintf(b, "    <lastmod>%s</lastmod>\n", lastmod)
	b.WriteString("  </url>\n")
}
