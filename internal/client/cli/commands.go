package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду CLI. Ошибки возвращаются вызывающему коду.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx)
	case "add":
		return c.runAdd(ctx, args)
	case "like":
		return c.runLike(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "stats":
		return c.runStats(ctx)
	case "users":
		return c.runUsers(ctx)
	case "help", "":
		PrintUsage(c.io)
		return nil
	default:
		PrintUsage(c.io)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}
