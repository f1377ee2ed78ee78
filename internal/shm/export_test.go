package shm

// ArenaBytesForTest exposes the unexported arena-region accessor to the
// external shm_test package, following the usual export_test.go pattern
// for reaching package-private state from black-box tests.
func ArenaBytesForTest(s *Store, key string) ([]byte, error) {
	return s.arenaBytes(key)
}
