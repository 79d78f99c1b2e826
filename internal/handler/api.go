package handler

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/opencodedocs/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	pages     *service.PageService
	sanitizer *bluemonday.Policy
	uploadDir string
	uploadURL string
}

// NewAPI constructs a handler set around the page service.
func NewAPI(db *gorm.DB, pages *service.PageService, uploadDir, uploadURL string) *API {
	return &API{
		db:        db,
		pages:     pages,
		sanitizer: buildContentSanitizer(),
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
