package launch

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits enforced before any gateway call.
const (
	MaxNameLen        = 32
	MinTickerLen      = 2
	MaxTickerLen      = 11
	MaxDescriptionLen = 500
)

// Chain identifiers the launchpad accepts.
const (
	ChainBSCTestnet = 97
	ChainBSC        = 56
	ChainSepolia    = 11155111
)

// SupportedChains returns the accepted chain identifiers in display order.
func SupportedChains() []int {
	return []int{ChainBSCTestnet, ChainBSC, ChainSepolia}
}

// Request is the immutable input to a pipeline run, resolved from flags
// or prompts before the pipeline starts.
type Request struct {
	Name        string
	Ticker      string
	Template    string
	Description string
	Logo        string
	ChainID     int
	DoDeploy    bool
	DoTokenize  bool
}

// Validate checks field lengths and enum membership. It returns the first
// violation as a *ValidationError and performs no gateway calls.
func (r *Request) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", MaxNameLen)}
	}

	ticker := strings.TrimSpace(r.Ticker)
	if n := utf8.RuneCountInString(ticker); n < MinTickerLen || n > MaxTickerLen {
		return &ValidationError{
			Field:  "ticker",
			Reason: fmt.Sprintf("must be %d to %d characters", MinTickerLen, MaxTickerLen),
		}
	}

	if utf8.RuneCountInString(r.Description) > MaxDescriptionLen {
		return &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLen),
		}
	}

	if !chainSupported(r.ChainID) {
		return &ValidationError{
			Field:  "chain",
			Reason: fmt.Sprintf("%d is not supported, use one of %v", r.ChainID, SupportedChains()),
		}
	}
	return nil
}

func chainSupported(id int) bool {
	for _, c := range SupportedChains() {
		if c == id {
			return true
		}
	}
	return false
}
