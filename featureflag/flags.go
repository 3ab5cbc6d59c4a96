package featureflag

type Flag string

const (
	// FlagDisableSiblingPreload turns off FrustumPass's sibling-loading
	// policy regardless of a renderer's LoadSiblings() return value.
	FlagDisableSiblingPreload Flag = "DISABLE_SIBLING_PRELOAD"

	// FlagDisableDebugStream stops the renderer from forwarding toggle
	// events to the websocket debug broadcaster. The debug stream listener
	// is still served; connected viewers receive no events.
	FlagDisableDebugStream Flag = "DISABLE_DEBUG_STREAM"

	// FlagForceCacheFull makes the content cache report IsFull() == true
	// unconditionally, for exercising backpressure behavior by hand.
	FlagForceCacheFull Flag = "FORCE_CACHE_FULL"

	// FlagDisableFrameSummaryLog silences the engine's periodic
	// frame-summary log line.
	FlagDisableFrameSummaryLog Flag = "DISABLE_FRAME_SUMMARY_LOG"
)
