package testevents

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Output layout.
const (
	resultsDirName = "results"
	labelsDirName  = "labels"
	manifestName   = "manifest.json"
	keyFormat      = "clip_%05d"
	sampleExt      = ".txt"
)
