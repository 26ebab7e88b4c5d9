package diag

// Severity classifies how urgent a diagnostic is.
type Severity uint8

const (
	// SevBreaking is for issues that prevent the notebook from executing
	// correctly.
	SevBreaking Severity = iota
	// SevRuntime is for issues that may change or obscure behavior at runtime.
	SevRuntime
	// SevFormatting is for structural and stylistic issues.
	SevFormatting
)

// Priority returns the sort rank of a severity: Breaking is 0 (most urgent),
// Runtime 1, Formatting 2. All ordering in this module goes through Priority,
// never through the numeric value of the constants themselves.
func (s Severity) Priority() int {
	switch s {
	case SevBreaking:
		return 0
	case SevRuntime:
		return 1
	case SevFormatting:
		return 2
	}
	return 3
}

func (s Severity) String() string {
	switch s {
	case SevBreaking:
		return "breaking"
	case SevRuntime:
		return "runtime"
	case SevFormatting:
		return "formatting"
	}
	return "unknown"
}

// ParseSeverity converts a severity keyword to its Severity value.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "breaking":
		return SevBreaking, true
	case "runtime":
		return SevRuntime, true
	case "formatting":
		return SevFormatting, true
	}
	return 0, false
}
