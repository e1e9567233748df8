package loadgen

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	maxErrorBody         = 4096
	directoryPermission  = 0750
)

// Generator constants.
const (
	// dominantShare is the chance a category is drawn from the top of its range.
	dominantShare = 0.25

	// dominantFraction selects the top 1/dominantFraction of a raw range.
	dominantFraction = 5

	// skipInstrumentShare is the chance an instrument is left unanswered.
	skipInstrumentShare = 0.1
)
