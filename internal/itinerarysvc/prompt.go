package itinerarysvc

import (
	"fmt"
	"strings"

	"github.com/joelkehle/trek-itinerary/internal/catalog"
	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

const DefaultMaxTreks = 20

// MatchTreks returns up to limit treks whose country or region equals the
// location, ignoring case. An empty location matches nothing.
func MatchTreks(treks []catalog.Trek, location string, limit int) []catalog.Trek {
	location = strings.TrimSpace(location)
	if location == "" || limit <= 0 {
		return nil
	}
	var out []catalog.Trek
	for _, t := range treks {
		if strings.EqualFold(t.Country, location) || strings.EqualFold(t.Region, location) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// BuildPrompt renders the user prompt for one itinerary request.
func BuildPrompt(req itinerary.Request, matches []catalog.Trek) string {
	var sb strings.Builder
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = "(no destination chosen)"
	}
	fmt.Fprintf(&sb, "Destination: %s\n", location)

	sb.WriteString("Preferences:\n")
	wrote := false
	for _, f := range filterLines(req.Filters) {
		sb.WriteString("- " + f + "\n")
		wrote = true
	}
	if !wrote {
		sb.WriteString("- none given\n")
	}
	if strings.TrimSpace(req.Comments) != "" {
		fmt.Fprintf(&sb, "Traveller comments: %s\n", req.Comments)
	}

	sb.WriteString("\nCatalog excerpt:\n")
	if len(matches) == 0 {
		sb.WriteString("(no catalogued treks for this destination; suggest a general plan and say so)\n")
	}
	for _, t := range matches {
		fmt.Fprintf(&sb, "- %s%s\n", t.Name, placeSuffix(t))
	}
	sb.WriteString("\nWrite a day-by-day itinerary.")
	return sb.String()
}

func filterLines(f itinerary.Filters) []string {
	var out []string
	add := func(label string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			out = append(out, label+": "+*v)
		}
	}
	add("accommodation", f.Accommodation)
	add("technical level", f.Technical)
	add("altitude", f.Altitude)
	add("difficulty", f.Difficulty)
	return out
}

func placeSuffix(t catalog.Trek) string {
	parts := make([]string, 0, 2)
	if t.Region != "" {
		parts = append(parts, t.Region)
	}
	if t.Country != "" {
		parts = append(parts, t.Country)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// draftItinerary is the catalog-only answer used when no LLM is configured.
func draftItinerary(req itinerary.Request, matches []catalog.Trek) string {
	var sb strings.Builder
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = "your destination"
	}
	fmt.Fprintf(&sb, "Suggested treks for %s\n", location)
	if lines := filterLines(req.Filters); len(lines) > 0 {
		fmt.Fprintf(&sb, "Preferences: %s\n", strings.Join(lines, "; "))
	}
	if len(matches) == 0 {
		fmt.Fprintf(&sb, "No catalogued treks match %s yet.\n", location)
		return sb.String()
	}
	for i, t := range matches {
		fmt.Fprintf(&sb, "Day %d: %s%s\n", i+1, t.Name, placeSuffix(t))
	}
	return sb.String()
}
