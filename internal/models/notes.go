package models

import (
	"encoding/json"
	"html/template"
)

// Notes is the result of one pipeline run
type Notes struct {
	VideoID      string
	ThumbnailURL string
	Title        string
	Language     string
	Summary      string
	HTML         template.HTML
}

// Language is a translation target: ISO code and an English name
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Languages []Language

// Video metadata rendered next to the thumbnail
type VideoInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (l Languages) MarshalBinary() (data []byte, err error) {
	return json.Marshal(l)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (l *Languages) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, l)
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (v VideoInfo) MarshalBinary() (data []byte, err error) {
	return json.Marshal(v)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (v *VideoInfo) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, v)
}
