package domain

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

type Permission string

const (
	PermManageRooms    Permission = "rooms.manage"
	PermManageBookings Permission = "bookings.manage"
	PermRecordPayments Permission = "payments.record"
	PermManageFood     Permission = "food.manage"
	PermViewReports    Permission = "reports.view"
	PermManageStaff    Permission = "staff.manage"
)

var AllPermissions = []Permission{
	PermManageRooms,
	PermManageBookings,
	PermRecordPayments,
	PermManageFood,
	PermViewReports,
	PermManageStaff,
}

// User is a staff account.
type User struct {
	ID           int64    `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"size:255"`
	Email        string   `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role" gorm:"size:16;default:staff"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`

	CanManageRooms    bool `json:"can_manage_rooms"`
	CanManageBookings bool `json:"can_manage_bookings"`
	CanRecordPayments bool `json:"can_record_payments"`
	CanManageFood     bool `json:"can_manage_food"`
	CanViewReports    bool `json:"can_view_reports"`
	CanManageStaff    bool `json:"can_manage_staff"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permissions expands the flags; admins hold every permission.
func (u *User) Permissions() []Permission {
	if u.Role == RoleAdmin {
		return append([]Permission(nil), AllPermissions...)
	}
	flags := map[Permission]bool{
		PermManageRooms:    u.CanManageRooms,
		PermManageBookings: u.CanManageBookings,
		PermRecordPayments: u.CanRecordPayments,
		PermManageFood:     u.CanManageFood,
		PermViewReports:    u.CanViewReports,
		PermManageStaff:    u.CanManageStaff,
	}
	var out []Permission
	for _, p := range AllPermissions {
		if flags[p] {
			out = append(out, p)
		}
	}
	return out
}

// SetPermissions replaces the flags with exactly the given set.
func (u *User) SetPermissions(perms []Permission) {
	has := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		has[p] = true
	}
	u.CanManageRooms = has[PermManageRooms]
	u.CanManageBookings = has[PermManageBookings]
	u.CanRecordPayments = has[PermRecordPayments]
	u.CanManageFood = has[PermManageFood]
	u.CanViewReports = has[PermViewReports]
	u.CanManageStaff = has[PermManageStaff]
}

func ParsePermission(raw string) (Permission, error) {
	for _, p := range AllPermissions {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", Invalid("unknown permission %q", raw)
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
