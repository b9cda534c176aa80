package recommender

import "errors"

var (
	// ErrInsufficientData is returned when the normalizer is fit on an empty corpus.
	ErrInsufficientData = errors.New("recommender: insufficient data to fit normalizer")

	// ErrCorpusUnavailable is returned when no usable meal corpus is loaded.
	ErrCorpusUnavailable = errors.New("recommender: meal corpus unavailable")

	// ErrInvalidRequest marks a request the caller must fix. Detail is attached
	// with fmt.Errorf("%w: ...").
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownPreference is returned for an unrecognized dietary preference tag.
	ErrUnknownPreference = &unknownPreferenceError{}

	// ErrMealNotFound is returned by lookups for a meal name not in the corpus.
	ErrMealNotFound = errors.New("recommender: meal not found")
)

type unknownPreferenceError struct{}

func (*unknownPreferenceError) Error() string { return "unknown dietary preference" }

// Unwrap makes errors.Is(err, ErrInvalidRequest) hold for unknown tags.
func (*unknownPreferenceError) Unwrap() error { return ErrInvalidRequest }
