// Package services implements account operations on top of the catalog's user list.
//
// # Authentication
//
// [AuthService] checks credentials and registers regular accounts. Usernames match ignoring case;
// passwords match exactly. Passwords are stored and compared in clear text, as the catalog
// document has always held them. Registration only changes the in-memory catalog and the caller
// persists it with [repositories.Store.SaveCatalog].
//
// # User management
//
// [UserService] backs the administrator menu. Unlike registration, its mutations persist the
// catalog immediately. Removing the last administrator is allowed; the next load re-creates the
// default admin/admin account.
//
// # Error Handling
//
//   - [shared.ErrAuthFailed] : unknown username or wrong password
//   - [shared.ErrDuplicateUsername] : username taken, ignoring case
//   - [shared.ErrUserNotFound] : delete target missing
//   - [shared.ErrPermissionDenied] : privileged operation attempted by a regular user
//   - [shared.ErrInvalidInput] : blank username
package services
