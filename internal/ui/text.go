package ui

import (
	"fmt"
	"strings"

	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/models"
)

// Crawlers that only burn Gemini quota
var blockedBots = []string{
	"Barkrowler",
	"BLEXBot",
	"Bytespider",
	"CCBot",
	"GPTBot",
	"Go-http-client",
	"Nuclei",
	"PetalBot",
	"Zoominfobot",
}

// Endpoints behind the form, never worth crawling
var disallowed = []string{
	"/apply",
	"/notes",
	"/health/",
}

// TextFiles gets the map containing the text files
func (s *service) TextFiles() models.TextFiles {
	return s.textFiles
}

// parseTextFiles builds the text files served from the root
func parseTextFiles(cfg *config.Config) models.TextFiles {
	return models.TextFiles{
		"/robots.txt": {Bytes: robotsTxt(cfg)},
	}
}

func robotsTxt(cfg *config.Config) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s://%s\n\n", cfg.Protocol, cfg.Domain)

	for _, bot := range blockedBots {
		fmt.Fprintf(&b, "User-agent: %s\n", bot)
	}
	b.WriteString("Disallow: /\n\n")

	b.WriteString("User-agent: *\n")
	for _, path := range disallowed {
		fmt.Fprintf(&b, "Disallow: %s\n", path)
	}
	b.WriteString("Allow: /\n")

	return []byte(b.String())
}
