package domain

// Role is the coarse permission level of an authenticated principal.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleWorker  Role = "worker"
)

// SystemActorID attributes rows written by automatic processes.
const SystemActorID = "system"

// Actor identifies who performs an operation. It is passed explicitly to every
// mutating service call and recorded in audit rows.
type Actor struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// SystemActor is the identity used by sweeps and other unattended work.
func SystemActor() Actor {
	return Actor{UserID: SystemActorID, Name: SystemActorID, Role: RoleAdmin}
}

// IsAdmin reports whether the actor may perform management operations.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// IsWorker reports whether the actor authenticated as a worker.
func (a Actor) IsWorker() bool {
	return a.Role == RoleWorker
}

// DisplayName is the label written into history rows.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.UserID
}

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser, RoleWorker:
		return true
	}
	return false
}
