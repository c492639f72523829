package itinerary

import "net/url"

// FailureMessage is shown in the output region whenever a submission fails,
// whatever the underlying cause.
const FailureMessage = "Sorry, we couldn't generate your itinerary right now. Please try again."

// Form field names of the preference form.
const (
	FieldAccommodation = "accommodation"
	FieldTechnical     = "technical"
	FieldAltitude      = "altitude"
	FieldDifficulty    = "difficulty"
	FieldComments      = "comments"
)

// Filters carries the preference selections exactly as entered. A nil field
// was absent from the form and is omitted on the wire; an empty string was
// present but left blank.
type Filters struct {
	Accommodation *string `json:"accommodation,omitempty"`
	Technical     *string `json:"technical,omitempty"`
	Altitude      *string `json:"altitude,omitempty"`
	Difficulty    *string `json:"difficulty,omitempty"`
}

// Request is the payload sent to the itinerary service.
type Request struct {
	Location string  `json:"location"`
	Filters  Filters `json:"filters"`
	Comments string  `json:"comments"`
}

// Response is the itinerary service reply. Reply is nil when the body had no
// reply field.
type Response struct {
	Reply *string `json:"reply,omitempty"`
	Error string  `json:"error,omitempty"`
}

// Outcome is the single rendered result of one submission.
type Outcome struct {
	Seq    uint64
	Text   string
	Failed bool
	// Stale is set when a later submission superseded this one before it
	// resolved; stale outcomes are never shown.
	Stale bool
}

// BuildRequest assembles the wire payload for one submission.
func BuildRequest(location string, filters Filters, comments string) Request {
	return Request{Location: location, Filters: filters, Comments: comments}
}

// FormFromValues extracts filters and comments from submitted form values.
// Values are taken verbatim: nothing is trimmed or defaulted.
func FormFromValues(values url.Values) (Filters, string) {
	return Filters{
		Accommodation: formValue(values, FieldAccommodation),
		Technical:     formValue(values, FieldTechnical),
		Altitude:      formValue(values, FieldAltitude),
		Difficulty:    formValue(values, FieldDifficulty),
	}, values.Get(FieldComments)
}

func formValue(values url.Values, key string) *string {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

// String returns a pointer to s, for building Filters in code.
func String(s string) *string {
	return &s
}
