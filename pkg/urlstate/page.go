package urlstate

import "github.com/vango-dev/hashnav/pkg/hashroute"

// PageState is a view of the fragment's page key.
type PageState struct {
	nav         *hashroute.Navigator
	defaultPage string
}

// UsePage binds the page key of nav. defaultPage is reported while the
// fragment has no page segment.
func UsePage(nav *hashroute.Navigator, defaultPage string) *PageState {
	return &PageState{nav: nav, defaultPage: defaultPage}
}

// Get returns the current page key or the default.
func (p *PageState) Get() string {
	if page := p.nav.GetParsedHash().PageKey; page != "" {
		return page
	}
	return p.defaultPage
}

// Set switches the page and keeps the route variables.
func (p *PageState) Set(page string) {
	p.nav.ChangePage(page)
}

// Is reports whether page is the active page.
func (p *PageState) Is(page string) bool {
	return p.Get() == page
}
