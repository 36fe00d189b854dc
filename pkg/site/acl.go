package site

// Permission is an operation a principal may be granted on content.
type Permission string

const (
	PermissionRead             Permission = "READ"
	PermissionCreate           Permission = "CREATE"
	PermissionModify           Permission = "MODIFY"
	PermissionDelete           Permission = "DELETE"
	PermissionPublish          Permission = "PUBLISH"
	PermissionReadPermissions  Permission = "READ_PERMISSIONS"
	PermissionWritePermissions Permission = "WRITE_PERMISSIONS"
)

// AllPermissions lists every permission, used for "allow all" entries.
var AllPermissions = []Permission{
	PermissionRead,
	PermissionCreate,
	PermissionModify,
	PermissionDelete,
	PermissionPublish,
	PermissionReadPermissions,
	PermissionWritePermissions,
}

// Well-known principals.
const (
	PrincipalAnonymous           = "user:system:anonymous"
	PrincipalEveryone            = "role:system.everyone"
	PrincipalAuthenticated       = "role:system.authenticated"
	PrincipalContentManagerAdmin = "role:cms.admin"
)

// AnonymousPrincipals are the principals of an unauthenticated visitor.
var AnonymousPrincipals = []string{PrincipalAnonymous, PrincipalEveryone}

// AccessControlEntry grants permissions to a principal.
type AccessControlEntry struct {
	Principal string       `json:"principal"`
	Allow     []Permission `json:"allow"`
}

// AccessControlList is the set of entries on a content.
type AccessControlList []AccessControlEntry

// Allow builds an entry granting the given permissions.
func Allow(principal string, perms ...Permission) AccessControlEntry {
	return AccessControlEntry{Principal: principal, Allow: perms}
}

// AllowAll builds an entry granting every permission.
func AllowAll(principal string) AccessControlEntry {
	return Allow(principal, AllPermissions...)
}

// IsAllowed reports whether any of the principals holds perm.
func (acl AccessControlList) IsAllowed(principals []string, perm Permission) bool {
	for _, entry := range acl {
		if !containsString(principals, entry.Principal) {
			continue
		}
		for _, p := range entry.Allow {
			if p == perm {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
