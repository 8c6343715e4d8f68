package domain

// This file is the role-hierarchy policy: pure decisions over already-loaded
// records. Nothing here touches a store or has side effects; callers resolve
// the entities first and map a false return to ErrPermissionDenied (or a more
// specific sentinel) themselves.

// CanAssignTask reports whether actor may assign a task to assignee.
// Self-assignment is always allowed and bypasses the hierarchy entirely.
func CanAssignTask(actor, assignee *User) bool {
	if assignee.ID == actor.ID {
		return true
	}
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return assignee.ManagerID == actor.ID
	case RoleUser:
		return false
	}
	return false
}

// CanCreateUser reports whether creator may create an account with newRole.
// Managers may only mint plain users (the service forces the new account's
// manager to the creator); no admin may create another admin.
func CanCreateUser(creator *User, newRole Role) bool {
	switch creator.Role {
	case RoleAdmin:
		return newRole == RoleUser || newRole == RoleManager
	case RoleManager:
		return newRole == RoleUser
	case RoleUser:
		return false
	}
	return false
}

// CanModifyUser reports whether modifier may update target's record.
func CanModifyUser(modifier, target *User) bool {
	switch modifier.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return target.ManagerID == modifier.ID
	case RoleUser:
		return false
	}
	return false
}

// CanDeleteUser applies the same ownership rule as CanModifyUser.
func CanDeleteUser(modifier, target *User) bool {
	return CanModifyUser(modifier, target)
}

// CanDeleteTask reports whether requester may delete task: admins and the
// task's creator only.
func CanDeleteTask(requester *User, task *Task) bool {
	return requester.Role == RoleAdmin || requester.ID == task.CreateUserID
}

// CanApproveTask reports whether a holder of role may approve or reject
// tasks. Enforced at the transport boundary, not inside the task service.
func CanApproveTask(role Role) bool {
	return role == RoleManager || role == RoleAdmin
}

// TaskScope is the query contract describing which tasks a viewer may list.
// The task repository translates it into a store-level query; visibility is
// never an in-memory filter pass. ManagedCreatorIDs is filled in by the
// service (from the identity store) when IncludeManaged is set, so the store
// receives a self-contained contract.
type TaskScope struct {
	// All grants an unfiltered scan. Only admins get this.
	All bool
	// ViewerID matches tasks created by or assigned to this user.
	ViewerID string
	// IncludeManaged extends the scope to tasks created by the viewer's
	// direct reports.
	IncludeManaged bool
	// ManagedCreatorIDs are the resolved report ids (set by the caller when
	// IncludeManaged is true).
	ManagedCreatorIDs []string
}

// VisibleTaskScope returns the task visibility contract for viewer:
// admins see everything, managers see their own tasks plus those created by
// their reports, users see only tasks they created or were assigned.
func VisibleTaskScope(viewer *User) TaskScope {
	switch viewer.Role {
	case RoleAdmin:
		return TaskScope{All: true}
	case RoleManager:
		return TaskScope{ViewerID: viewer.ID, IncludeManaged: true}
	case RoleUser:
		return TaskScope{ViewerID: viewer.ID}
	}
	return TaskScope{ViewerID: viewer.ID}
}
