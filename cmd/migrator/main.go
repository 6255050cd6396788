// migrator applies the SQL migrations. Run it before the server on fresh
// databases; the attendance uniqueness guarantees live in these migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"emarge/internal/platform/config"
)

func main() {
	var migrationsPath, direction string
	flag.StringVar(&migrationsPath, "migrations-path", "migrations", "path to migration files")
	flag.StringVar(&direction, "direction", "up", "up or down")
	flag.Parse()

	cfg := config.FromEnv()

	m, err := migrate.New("file://"+migrationsPath, cfg.Postgres.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open migrations: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		fmt.Fprintf(os.Stderr, "unknown direction %q\n", direction)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", direction, err)
		os.Exit(1)
	}
	fmt.Println("migrations applied")
}
