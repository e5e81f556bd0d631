package app

const (
	OutputFlagName = "output"
	YesFlagName    = "yes"
	SearchFlagName = "search"
)
