package domain

import (
	"time"
)

// StructID is the resource id of the unified composite document holding every
// known content collection plus versioning metadata.
const StructID = "content-struct"

const (
	ResourceSiteContent   = "site-content"
	ResourceEvents        = "events"
	ResourceNews          = "news"
	ResourceGalleryPhotos = "gallery-photos"
	ResourceVideos        = "videos"
	ResourceDrivers       = "drivers"
)

// KnownResources is the fixed set of collections tracked inside the composite
// document. Ids outside this set go through the legacy per-resource path.
var KnownResources = []string{
	ResourceSiteContent,
	ResourceEvents,
	ResourceNews,
	ResourceGalleryPhotos,
	ResourceVideos,
	ResourceDrivers,
}

func IsKnownResource(id string) bool {
	for _, known := range KnownResources {
		if id == known {
			return true
		}
	}
	return false
}

// ResourceList is an ordered sequence of loosely-typed content items. Events,
// news, drivers, photos and videos stay opaque; site-content items are pages.
type ResourceList []any

// ContentStruct is the composite document. SchemaVersion strictly increases
// with every successful persist and is never reused.
type ContentStruct struct {
	SchemaVersion int64                   `json:"schemaVersion"`
	UpdatedAt     time.Time               `json:"updatedAt"`
	Resources     map[string]ResourceList `json:"resources"`
}

// NewContentStruct returns an empty skeleton with every known resource
// present as an empty sequence.
func NewContentStruct() ContentStruct {
	s := ContentStruct{Resources: map[string]ResourceList{}}
	for _, id := range KnownResources {
		s.Resources[id] = ResourceList{}
	}
	return s
}

// Page is the editable unit of the site-content resource: a named group of
// text and image blocks rendered by the public site.
type Page struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Sections []Section   `json:"sections"`
	Images   []PageImage `json:"images"`
	Active   *bool       `json:"active,omitempty"`
}

type Section struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // text or image
	Label string `json:"label"`
	Value string `json:"value"`
	URL   string `json:"url,omitempty"`
	Order int    `json:"order,omitempty"`
}

type PageImage struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Alt   string `json:"alt"`
	Type  string `json:"type"` // local or remote
	Order int    `json:"order,omitempty"`
}

// ChangeEvent is broadcast after every successful save so admin clients can
// refresh their previews.
type ChangeEvent struct {
	Resource      string    `json:"resource"`
	SchemaVersion int64     `json:"schemaVersion"`
	Revision      string    `json:"revision"`
	At            time.Time `json:"at"`
}
