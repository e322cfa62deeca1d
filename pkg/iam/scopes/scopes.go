// Package scopes maps roles to the "resource:action" scopes carried in tokens.
package scopes

import "github.com/Abraxas-365/nccerp/pkg/iam"

const (
	All = "*"

	UsersRead  = "users:read"
	UsersWrite = "users:write"

	UnitsRead  = "units:read"
	UnitsWrite = "units:write"

	CollegesRead  = "colleges:read"
	CollegesWrite = "colleges:write"

	ContactsRead  = "contacts:read"
	ContactsWrite = "contacts:write"

	DirectoryRead  = "directory:read"
	DirectoryAdmin = "directory:admin"

	CampsRead  = "camps:read"
	CampsWrite = "camps:write"

	SubmissionsWrite = "submissions:write"
	SubmissionsRead  = "submissions:read"

	SelectionsReview   = "selections:review"
	SelectionsFinalize = "selections:finalize"
	InstituteWrite     = "institute:write"

	DocumentsWrite = "documents:write"
	DocumentsRead  = "documents:read"

	DashboardRead = "dashboard:read"
)

var roleScopes = map[iam.Role][]string{
	iam.RoleAdmin: {
		UsersRead, UsersWrite,
		UnitsRead, UnitsWrite,
		CollegesRead, CollegesWrite,
		ContactsRead, ContactsWrite,
		DirectoryRead, DirectoryAdmin,
		CampsRead,
		DashboardRead,
	},
	iam.RoleClerk: reviewer(),
	iam.RoleCO:    reviewer(),
	iam.RoleANO: {
		CampsRead,
		SubmissionsWrite, SubmissionsRead,
		DocumentsWrite, DocumentsRead,
		DirectoryRead,
		DashboardRead,
	},
}

func reviewer() []string {
	return []string{
		CampsRead, CampsWrite,
		CollegesRead, UnitsRead,
		SubmissionsRead,
		SelectionsReview, SelectionsFinalize, InstituteWrite,
		DocumentsRead,
		DashboardRead,
	}
}

// ForRole returns a copy of the scopes granted to role
func ForRole(role iam.Role) []string {
	return append([]string(nil), roleScopes[role]...)
}
