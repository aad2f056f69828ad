package domain

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Member associates an external user with an event.
type Member struct {
	ID      int64
	EventID int64
	UserID  string
	Role    MemberRole
}

// Like marks that a user liked an event; unique per (event, user).
type Like struct {
	ID      int64
	EventID int64
	UserID  string
}
