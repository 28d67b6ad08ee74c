// Package settings holds the user preferences the data layer reads when it
// builds requests.
package settings

import (
	"fmt"
	"sync"

	"github.com/glabrego/lemmy-cli/internal/api"
)

type Settings struct {
	DefaultSort          api.SortType
	DefaultCommunitySort api.SortType
	DefaultListingType   api.ListingType
	DefaultCommentSort   api.CommentSortType
	UseReaderMode        bool
	UseDefaultBrowser    bool
}

func Defaults() Settings {
	return Settings{
		DefaultSort:          api.SortHot,
		DefaultCommunitySort: api.SortHot,
		DefaultListingType:   api.ListingAll,
		DefaultCommentSort:   api.CommentSortHot,
	}
}

var (
	validSorts = map[api.SortType]struct{}{
		api.SortActive: {}, api.SortHot: {}, api.SortNew: {}, api.SortOld: {},
		api.SortTopDay: {}, api.SortTopWeek: {}, api.SortTopMonth: {}, api.SortTopYear: {},
		api.SortTopAll: {}, api.SortMostComments: {}, api.SortNewComments: {},
	}
	validListings = map[api.ListingType]struct{}{
		api.ListingAll: {}, api.ListingLocal: {}, api.ListingSubscribed: {},
	}
	validCommentSorts = map[api.CommentSortType]struct{}{
		api.CommentSortHot: {}, api.CommentSortTop: {}, api.CommentSortNew: {}, api.CommentSortOld: {},
	}
)

func (s Settings) Validate() error {
	if _, ok := validSorts[s.DefaultSort]; !ok {
		return fmt.Errorf("unknown default sort: %q", s.DefaultSort)
	}
	if _, ok := validSorts[s.DefaultCommunitySort]; !ok {
		return fmt.Errorf("unknown default community sort: %q", s.DefaultCommunitySort)
	}
	if _, ok := validListings[s.DefaultListingType]; !ok {
		return fmt.Errorf("unknown default listing type: %q", s.DefaultListingType)
	}
	if _, ok := validCommentSorts[s.DefaultCommentSort]; !ok {
		return fmt.Errorf("unknown default comment sort: %q", s.DefaultCommentSort)
	}
	return nil
}

// Holder shares the current settings between the UI and the data layer.
type Holder struct {
	mu  sync.RWMutex
	cur Settings
}

func NewHolder(initial Settings) *Holder {
	return &Holder{cur: initial}
}

func (h *Holder) Get() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

func (h *Holder) Set(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	h.cur = s
	h.mu.Unlock()
	return nil
}
