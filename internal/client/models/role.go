package models

// Role is the client-side message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleError marks local failure notices. They are never persisted.
	RoleError Role = "error"
)

// Server-side role vocabulary.
const (
	ServerRoleUser   = "user"
	ServerRoleAgent  = "agent"
	ServerRoleSystem = "system"
)

var toServerRole = map[string]string{
	"assistant": ServerRoleAgent,
	"bot":       ServerRoleAgent,
	"agent":     ServerRoleAgent,
	"user":      ServerRoleUser,
	"system":    ServerRoleSystem,
}

var fromServerRole = map[string]Role{
	ServerRoleAgent:  RoleAssistant,
	ServerRoleUser:   RoleUser,
	ServerRoleSystem: RoleSystem,
}

// ToServerRole translates a client role to the server vocabulary. Unknown
// roles pass through unchanged.
func ToServerRole(role string) string {
	if r, ok := toServerRole[role]; ok {
		return r
	}
	return role
}

// FromServerRole translates a stored role back for display. Unknown roles
// pass through unchanged.
func FromServerRole(role string) Role {
	if r, ok := fromServerRole[role]; ok {
		return r
	}
	return Role(role)
}

// Persistable reports whether messages with this role may be sent to the server.
func (r Role) Persistable() bool {
	return r != RoleError
}
