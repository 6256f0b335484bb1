package models

import (
	"html/template"
	"time"

	"github.com/vlatan/video-notes/internal/config"
)

type TemplateMap map[string]*template.Template

// Static file info cached in memory
type FileInfo struct {
	Bytes      []byte
	Compressed []byte
	MediaType  string
	Etag       string
	ModTime    time.Time
}

type StaticFiles map[string]*FileInfo
type TextFiles map[string]*FileInfo

// Flash message object rendered as a banner
type FlashMessage struct {
	Message  string
	Category string
}

// Specific data for the error pages
type HTMLErrorData struct {
	Title   string
	Heading string
	Text    string
}

type JSONErrorData struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Data struct to pass to templates
type TemplateData struct {
	StaticFiles   StaticFiles
	Config        *config.Config
	Title         string
	CurrentURI    string
	CSRFField     template.HTML
	Languages     Languages
	Session       *Session
	VideoID       string
	ThumbnailURL  string
	Video         *VideoInfo
	Notes         *Notes
	FlashMessages []*FlashMessage
	HTMLErrorData *HTMLErrorData
}

// Add version query string to file
func (td *TemplateData) AddVersion(path string) string {
	if fi, ok := td.StaticFiles[path]; ok {
		return path + "?v=" + fi.Etag
	}
	return path
}

// IsSelected checks if the language code is the session's target language
func (td *TemplateData) IsSelected(code string) bool {
	return td.Session != nil && td.Session.TargetLanguage == code
}

// CanRequestNotes checks if the "get notes" button should be shown
func (td *TemplateData) CanRequestNotes() bool {
	return td.VideoID != "" && td.Session.HasLink()
}

// Get time now
func (td *TemplateData) Now() time.Time {
	return time.Now()
}
