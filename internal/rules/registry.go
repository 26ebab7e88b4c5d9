package rules

// Catalog returns the full built-in rule set, breaking rules first. The list
// is assembled statically; there is no mutable global registry.
func Catalog() []Rule {
	return []Rule{
		UnparsableCells{},
		MultipleDefinitions{},
		CycleDependencies{},
		SetupCellDependencies{},
		ParseStdout{},
		ParseStderr{},
		ParseLog{},
		GeneralFormatting{},
	}
}
