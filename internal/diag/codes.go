package diag

// Rule identity: Code is the stable machine identifier, Name the short human
// title. Both appear verbatim in formatted output, so treat them as part of
// the tool's public surface.
const (
	CodeUnparsableCells   = "unparsable-cells"
	CodeMultipleDefs      = "multiple-definitions"
	CodeCycleDependencies = "cycle-dependencies"
	CodeSetupDependencies = "setup-cell-dependencies"
	CodeGeneralFormatting = "general-formatting"
	CodeParseStdout       = "parse-stdout"
	CodeParseStderr       = "parse-stderr"
	CodeParseLog          = "parse-log"
)

const (
	NameUnparsableCells   = "Unparsable cells"
	NameMultipleDefs      = "Multiple definitions"
	NameCycleDependencies = "Cycle dependencies"
	NameSetupDependencies = "Setup cell dependencies"
	NameGeneralFormatting = "General formatting"
	NameParseStdout       = "Stdout during parse"
	NameParseStderr       = "Stderr during parse"
	NameParseLog          = "Log output during parse"
)
