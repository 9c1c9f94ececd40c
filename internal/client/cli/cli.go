package cli

import (
	"context"
	"errors"

	"github.com/iudanet/bloglist/internal/client/api"
	"github.com/iudanet/bloglist/internal/client/auth"
	"github.com/iudanet/bloglist/internal/client/iocli"
)

// ErrUsage возвращается при неверных аргументах команды
var ErrUsage = errors.New("invalid usage")

type Cli struct {
	io          iocli.IO
	apiClient   *api.Client
	authService auth.Service
}

func New(io iocli.IO, apiClient *api.Client, authService auth.Service) *Cli {
	return &Cli{
		io:          io,
		apiClient:   apiClient,
		authService: authService,
	}
}

// optionalToken возвращает токен сессии или пустую строку, если вход не выполнен.
// Истекшая сессия считается ошибкой, чтобы запись не создалась без владельца молча.
func (c *Cli) optionalToken(ctx context.Context) (string, error) {
	token, err := c.authService.Token(ctx)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return "", nil
	}
	return token, err
}

func PrintUsage(io iocli.IO) {
	io.Println("Bloglist Client")
	io.Println()
	io.Println("Usage:")
	io.Println("  bloglist [OPTIONS] COMMAND [ARGS]")
	io.Println()
	io.Println("Options:")
	io.Println("  --version                    Show version information")
	io.Println("  --server URL                 Server URL (default: http://localhost:8080)")
	io.Println("  --db PATH                    Path to local session database (default: bloglist-client.db)")
	io.Println()
	io.Println("Commands:")
	io.Println("  register                     Register new user and login")
	io.Println("  login                        Login to server")
	io.Println("  logout                       Forget local session")
	io.Println("  status                       Show authentication status")
	io.Println("  list                         List all blogs")
	io.Println("  add [-title T] [-author A] [-url U] [-likes N]")
	io.Println("                               Add a blog (owned by you when logged in)")
	io.Println("  like <id> [likes]            Increment likes or set them to a value")
	io.Println("  delete <id>                  Delete your blog")
	io.Println("  stats                        Show catalog statistics")
	io.Println("  users                        List users and their blogs")
	io.Println()
	io.Println("Examples:")
	io.Println("  bloglist register")
	io.Println("  bloglist add -title 'Type wars' -url http://blog.cleancoder.com/uncle-bob/2016/05/01/TypeWars.html")
	io.Println("  bloglist like 5a422bc6-4a7b-4f1d-9a0c-4e5d0b3c8f11")
	io.Println("  bloglist --server https://example.com login")
}
