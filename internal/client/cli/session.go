package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/bloglist/internal/client/auth"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	authData, err := c.authService.Register(ctx, username, name, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Logged in as: %s\n", authData.Username)
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	authData, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", authData.Username)
	if authData.ExpiresAt != 0 {
		c.io.Printf("Token expires: %s\n", time.Unix(authData.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			c.io.Println("Not logged in.")
			return nil
		}
		return err
	}
	c.io.Println("✓ Logged out")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	authData, err := c.authService.Status(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'bloglist login' to authenticate.")
			return nil
		}
		return err
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", authData.Username)
	if authData.Name != "" {
		c.io.Printf("Name: %s\n", authData.Name)
	}
	if authData.Server != "" {
		c.io.Printf("Server: %s\n", authData.Server)
	}

	if authData.ExpiresAt == 0 {
		c.io.Println("Token expires: never")
		return nil
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	if remaining := time.Until(expiresAt); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}
	return nil
}
