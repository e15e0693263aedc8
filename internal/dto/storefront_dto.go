package dto

import "html/template"

// PageCard is one entry of a page list or the featured row.
type PageCard struct {
	Id       string
	Title    string
	CoverURL string
}

type ChatMessage struct {
	Id       string
	Role     string
	HTML     template.HTML
	ImageURL string
}

type ChatPanel struct {
	// Disabled replaces the whole panel with Error; no input is offered.
	Disabled     bool
	Error        string
	Messages     []ChatMessage
	PendingImage string
	Placeholder  string
}

type Notice struct {
	Level string
	Text  string
}

type HomeView struct {
	Featured []PageCard
	Heading  string
	HasLogo  bool
	Chat     ChatPanel
}

type InfoListView struct {
	Pages []PageCard
}

type ContentView struct {
	PageId    string
	Title     string
	BackLabel string
	FrameURL  string
	NotFound  bool
}

// ShellView is everything the page layout needs for one render.
type ShellView struct {
	Kind       string
	Sidebar    []PageCard
	AuthorName string
	AuthorURL  string
	Notices    []Notice

	Home     *HomeView
	InfoList *InfoListView
	Content  *ContentView
}

type SendMessageRequest struct {
	Message string `form:"message" validate:"max=4000"`
}

type RefreshContentResponse struct {
	Articles  int `json:"articles"`
	InfoPages int `json:"info_pages"`
	Products  int `json:"products"`
}
