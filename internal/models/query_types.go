// internal/models/query_types.go
package models

// RealtimeSource names an external live-data feed.
type RealtimeSource string

const (
	SourceEvents RealtimeSource = "events"
	SourceJobs   RealtimeSource = "jobs"
	SourceNews   RealtimeSource = "news"
)

// Intent values produced by intent detection and returned by /chat/ask.
const (
	IntentSignup        = "signup"
	IntentUpdateProfile = "update_profile"
	IntentGeneral       = "general"
	IntentUplift        = "uplift"
)
