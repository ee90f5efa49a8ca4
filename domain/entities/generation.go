package entities

// OutcomeKind tags a GenerationOutcome variant
type OutcomeKind string

const (
	OutcomeSuccess  OutcomeKind = "success"
	OutcomeDegraded OutcomeKind = "degraded"
	OutcomeFailure  OutcomeKind = "failure"
)

// ErrorKind classifies a failed generation
type ErrorKind string

const (
	ErrorKindQuotaExhausted ErrorKind = "quota_exhausted"
	ErrorKindAuth           ErrorKind = "auth_error"
	ErrorKindTransient      ErrorKind = "transient"
	ErrorKindUnknown        ErrorKind = "unknown"
)

// GenerationOutcome is Success{Text}, Degraded{Text, Reason} or Failure{ErrorKind}.
// Use the constructors; a Success never carries empty text.
type GenerationOutcome struct {
	Kind      OutcomeKind
	Text      string
	Reason    string
	ErrorKind ErrorKind
}

func Success(text string) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeSuccess, Text: text}
}

func Degraded(text, reason string) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeDegraded, Text: text, Reason: reason}
}

func Failure(kind ErrorKind) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeFailure, ErrorKind: kind}
}

// IsFailure reports whether the outcome carries no usable text
func (o GenerationOutcome) IsFailure() bool {
	return o.Kind == OutcomeFailure
}
