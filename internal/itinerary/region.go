package itinerary

import (
	"html"
	"sync"
)

// RegionID is the id of the output element holding the rendered outcome.
const RegionID = "itinerary"

// Output receives rendered outcomes.
type Output interface {
	Show(Outcome)
}

// Region is the named output area of a session. It holds the last outcome
// shown and its HTML fragment.
type Region struct {
	mu      sync.RWMutex
	outcome Outcome
	shown   bool
}

func NewRegion() *Region {
	return &Region{}
}

func (r *Region) Show(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcome = o
	r.shown = true
}

// Current returns the last shown outcome, if any.
func (r *Region) Current() (Outcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outcome, r.shown
}

// HTML renders the region contents. A reply is preformatted, escaped text and
// is never interpreted as markup.
func (r *Region) HTML() string {
	o, ok := r.Current()
	if !ok {
		return `<div id="` + RegionID + `"></div>`
	}
	return RenderOutcome(o)
}

// RenderOutcome renders one outcome as the output region fragment.
func RenderOutcome(o Outcome) string {
	if o.Failed {
		return `<div id="` + RegionID + `"><p class="itinerary-error">` + html.EscapeString(o.Text) + `</p></div>`
	}
	return `<div id="` + RegionID + `"><pre class="itinerary-reply">` + html.EscapeString(o.Text) + `</pre></div>`
}
