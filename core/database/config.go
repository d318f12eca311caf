package database

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds configuration for the database connection.
// It is usually built from the collection connection string.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string
	// Host is the database host.
	Host string
	// Port is the database port.
	Port int
	// User is the database user.
	User string
	// Password is the database password.
	Password string
	// Name is the database name, or the file path for sqlite.
	Name string
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int
}
