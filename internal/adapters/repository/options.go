package repository

// Option applies a configuration option to the GormStore.
type Option func(*GormStore)

// WithDSN sets the SQLite data source. The default is an on-disk file
// next to the process; tests use the in-memory DSN.
func WithDSN(dsn string) Option {
	return func(s *GormStore) {
		if dsn != "" {
			s.dsn = dsn
		}
	}
}
