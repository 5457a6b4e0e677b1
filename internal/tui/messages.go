package tui

import (
	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/present"
)

// pageLoadedMsg reports a finished Reset or LoadMore on the feed.
type pageLoadedMsg struct {
	err error
}

type articleLoadedMsg struct {
	seq  int
	view *present.View
}

type comicsLoadedMsg struct {
	comics []models.Comic
}
