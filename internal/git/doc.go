// Package git checks whether seedlock record files are exposed through a
// git repository.
//
// Checks performed:
//   - Whether the working directory is inside a git repository
//   - Whether a record file is tracked by git (should not be)
//   - Whether a record file is in .gitignore (should be)
//
// A committed record can be attacked offline forever; the passphrase is
// then the only protection left.
package git
