package persistence

import "testing"

func StubBackupRename(t testing.TB, rename func(oldpath, newpath string) error) {
	t.Helper()

	prev := backupRename
	backupRename = rename

	t.Cleanup(func() { backupRename = prev })
}
