package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/allinone-seolbi/site/internal/config"
	"github.com/allinone-seolbi/site/internal/services"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/pg"
)

const usage = `usage:
  cli migrate [up|down|status] [--env=path] [--dir=./migrations]
  cli hash-password            reads the admin secret from stdin`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "migrate":
		err = migrate(os.Args[2:])
	case "hash-password":
		err = hashPassword()
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("cli: command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func migrate(args []string) error {
	direction := "up"
	if len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		direction = args[0]
	}

	if err := config.Load(config.EnvPathFromArgs(args)); err != nil {
		return err
	}
	cfg := config.Get()
	dir := migrationPath(args, cfg.MigrationsDir)

	logger.Info("running migrations", "direction", direction, "dir", dir)
	switch direction {
	case "up":
		return pg.Migrate(cfg.PostgresWrite(), dir)
	case "down":
		return pg.Rollback(cfg.PostgresWrite(), dir)
	case "status":
		return pg.MigrationStatus(cfg.PostgresWrite(), dir)
	}
	return fmt.Errorf("unknown migrate direction %q", direction)
}

// hashPassword prints a bcrypt hash for ADMIN_PASSWORD_HASH.
func hashPassword() error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read secret: %w", err)
	}
	hash, err := services.HashPassword(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func migrationPath(args []string, fallback string) string {
	for _, v := range args {
		if dir, ok := strings.CutPrefix(v, "--dir="); ok {
			return dir
		}
	}
	return fallback
}
