package constants

import "time"

// Graph constants
const (
	// GraphName is the property graph declared over the relational tables
	GraphName = "SocialGraph"
)

// Schema constants
const (
	// DefaultDDLTimeout bounds how long a schema change may run before setup gives up
	DefaultDDLTimeout = 360 * time.Second
)

// Seed constants
const (
	// MaxTopicNameLength matches the Topic.name column width
	MaxTopicNameLength = 200
	// IDLength is the width of generated identifiers (canonical UUID text)
	IDLength = 36
)

// Read API constants
const (
	// DefaultFeedLimit is how many posts and events the home page shows
	DefaultFeedLimit = 50
	// QueryTimeout bounds a single read-path query
	QueryTimeout = 10 * time.Second
)
