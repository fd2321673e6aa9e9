package config

const (
	// MaxWorkspaceNameLength is the maximum length for workspace names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxWorkspaceNameLength = 255

	// MaxPageTitleLength is the maximum length for page titles.
	// Same bound as workspace names for consistency.
	MaxPageTitleLength = 255

	// MaxWorkspaceDepth is the deepest nesting level a workspace item
	// may carry. Deeper trees render poorly and usually indicate a
	// runaway client.
	MaxWorkspaceDepth = 32

	// DefaultWorkspaceRetentionDays is how long an unfavorited workspace
	// may go unaccessed before the reaper deletes it.
	DefaultWorkspaceRetentionDays = 30
)
