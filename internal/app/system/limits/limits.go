// internal/app/system/limits/limits.go
package limits

// Request body size limits. These keep oversized payloads from
// exhausting memory before validation runs.
const (
	// MaxJSONBody caps ordinary JSON request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxMessageBody caps direct-message sends (body + attachment metadata).
	MaxMessageBody = 64 << 10 // 64 KB

	// MaxProfileBody caps profile updates (bio, skills, links).
	MaxProfileBody = 256 << 10 // 256 KB
)

// Content limits enforced during validation.
const (
	// MaxSkills caps a user's skill list.
	MaxSkills = 50

	// MinTaskTitleLength is the shortest accepted task title.
	MinTaskTitleLength = 3

	// MaxRequestMessage caps the free-text message on a team request.
	MaxRequestMessage = 1000

	// MaxCommentLength caps comments and discussion replies.
	MaxCommentLength = 5000
)
