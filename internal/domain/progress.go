package domain

// ProgressChange classifies the current value of a goal against the previously recorded value
type ProgressChange string

const (
	ProgressIncreased ProgressChange = "increased"
	ProgressSame      ProgressChange = "same"
	ProgressDecreased ProgressChange = "decreased"
)

// Valid reports whether c is one of the known progress changes
func (c ProgressChange) Valid() bool {
	switch c {
	case ProgressIncreased, ProgressSame, ProgressDecreased:
		return true
	}
	return false
}
