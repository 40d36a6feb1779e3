package domain

import "time"

// User is the domain entity for a user account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Settings     Settings
	CreatedAt    time.Time
}

// Settings are per-user display preferences. Sort uses the same grammar as
// the task list sort parameter and is the owner-defined default order.
type Settings struct {
	HideCompleted bool
	AddToBottom   bool
	Sort          string
}

// UserPatch is a partial update of a user's profile and settings.
type UserPatch struct {
	Name          Optional[string]
	HideCompleted Optional[bool]
	AddToBottom   Optional[bool]
	Sort          Optional[string]
}

// Apply returns a copy of u with the patch applied. Null values reset a
// field to its zero value.
func (p UserPatch) Apply(u User) User {
	if p.Name.Set {
		u.Name = deref(p.Name.Value)
	}
	if p.HideCompleted.Set {
		u.Settings.HideCompleted = deref(p.HideCompleted.Value)
	}
	if p.AddToBottom.Set {
		u.Settings.AddToBottom = deref(p.AddToBottom.Value)
	}
	if p.Sort.Set {
		u.Settings.Sort = deref(p.Sort.Value)
	}
	return u
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
