package models

// Placeholder profile values, matching what the mobile app writes for users
// whose profile is missing or unreadable.
const (
	// PlaceholderDisplayName is the generic "User" label shown until a real
	// display name is known.
	PlaceholderDisplayName = "Користувач"

	// PlaceholderAvatarURL is the default avatar for new and synthesized
	// profiles.
	PlaceholderAvatarURL = "https://cdn-icons-png.flaticon.com/512/149/149071.png"
)
