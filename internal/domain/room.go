package domain

// RoomName identifies a broadcast group. Rooms have no persisted state of
// their own; a room exists only while the registry holds members for it.
type RoomName string

// The two blog topics are fixed names, every other room is derived from a
// resource identifier.
const (
	BlogRoom      RoomName = "blog_room"
	AdminBlogRoom RoomName = "admin_blog_room"
)

// UserRoom is the private identity room, auto-joined on connect.
// Exactly one per user; every device of that user is a member.
func UserRoom(id UserID) RoomName { return RoomName("user:" + string(id)) }

// SchoolRoom groups viewers of one school's page for rating updates.
func SchoolRoom(schoolID string) RoomName { return RoomName("school:" + schoolID) }

// ApplicationRoom is a chat thread between the participants of one job
// application.
func ApplicationRoom(applicationID string) RoomName {
	return RoomName("application:" + applicationID)
}

// ProfileRoom groups subscribers of one profile's social feed.
func ProfileRoom(profileID string) RoomName { return RoomName("profile:" + profileID) }
