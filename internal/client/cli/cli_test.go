package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bloglist/internal/client/api"
	"github.com/iudanet/bloglist/internal/client/auth"
	"github.com/iudanet/bloglist/internal/client/iocli"
	"github.com/iudanet/bloglist/internal/client/storage/boltdb"
	"github.com/iudanet/bloglist/internal/config"
	"github.com/iudanet/bloglist/internal/server"
	"github.com/iudanet/bloglist/internal/server/storage/memory"
)

// startServer поднимает настоящий сервер с хранилищем в памяти
func startServer(t *testing.T) string {
	t.Helper()

	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = 4

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(&cfg, logger, memory.New(), "test")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	return "http://" + ln.Addr().String()
}

// testTerminal собирает вывод и отдает заранее заданный ввод
type testTerminal struct {
	mock   *iocli.IOMock
	out    *strings.Builder
	inputs []string
}

func newTestTerminal() *testTerminal {
	term := &testTerminal{out: &strings.Builder{}}
	next := func(prompt string) (string, error) {
		if len(term.inputs) == 0 {
			return "", fmt.Errorf("unexpected prompt %q", prompt)
		}
		v := term.inputs[0]
		term.inputs = term.inputs[1:]
		return v, nil
	}
	term.mock = &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			fmt.Fprintln(term.out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			fmt.Fprintf(term.out, format, a...)
		},
		ReadInputFunc:    next,
		ReadPasswordFunc: next,
		WriteFunc: func(p []byte) (int, error) {
			return term.out.Write(p)
		},
	}
	return term
}

// input задает ответы на следующие запросы ввода и сбрасывает вывод
func (tt *testTerminal) input(values ...string) {
	tt.inputs = append(tt.inputs, values...)
	tt.out.Reset()
}

// newTestCli создает клиента с отдельной сессией в bbolt файле
func newTestCli(t *testing.T, baseURL string) (*Cli, *testTerminal) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	apiClient := api.NewClient(baseURL)
	term := newTestTerminal()
	return New(term.mock, apiClient, auth.NewService(apiClient, store, baseURL)), term
}

func TestCli_FullFlow(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)
	c, term := newTestCli(t, baseURL)

	// Статус до входа
	term.input()
	require.NoError(t, c.Run(ctx, "status", nil))
	assert.Contains(t, term.out.String(), "Not authenticated")

	// Регистрация выполняет вход
	term.input("mluukkai", "Matti Luukkainen", "salainen", "salainen")
	require.NoError(t, c.Run(ctx, "register", nil))
	assert.Contains(t, term.out.String(), "Logged in as: mluukkai")
	assert.Len(t, term.mock.ReadPasswordCalls(), 2)

	term.input()
	require.NoError(t, c.Run(ctx, "status", nil))
	assert.Contains(t, term.out.String(), "Username: mluukkai")
	assert.Contains(t, term.out.String(), "Server: "+baseURL)

	// Добавление записи с флагами, URL спрашивается интерактивно
	term.input("http://blog.cleancoder.com/uncle-bob/2016/05/01/TypeWars.html")
	require.NoError(t, c.Run(ctx, "add", []string{"-title", "Type wars", "-author", "Robert C. Martin", "-likes", "2"}))
	assert.Contains(t, term.out.String(), "Blog added")
	assert.Contains(t, term.out.String(), "Likes:  2")
	assert.Contains(t, term.out.String(), "Owner:")

	posts, err := c.apiClient.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	id := posts[0].ID

	// Лайк без значения увеличивает счетчик
	term.input()
	require.NoError(t, c.Run(ctx, "like", []string{id}))
	assert.Contains(t, term.out.String(), "now has 3 likes")

	term.input()
	require.NoError(t, c.Run(ctx, "like", []string{id, "10"}))
	assert.Contains(t, term.out.String(), "now has 10 likes")

	term.input()
	require.NoError(t, c.Run(ctx, "list", nil))
	assert.Contains(t, term.out.String(), "Blogs (1)")
	assert.Contains(t, term.out.String(), "Type wars")

	term.input()
	require.NoError(t, c.Run(ctx, "stats", nil))
	assert.Contains(t, term.out.String(), "Total likes: 10")
	assert.Contains(t, term.out.String(), "Most likes:  Robert C. Martin (10)")

	term.input()
	require.NoError(t, c.Run(ctx, "users", nil))
	assert.Contains(t, term.out.String(), "mluukkai (Matti Luukkainen): 1 blog(s)")
	assert.Contains(t, term.out.String(), id)

	term.input()
	require.NoError(t, c.Run(ctx, "delete", []string{id}))
	assert.Contains(t, term.out.String(), "Blog deleted")

	term.input()
	require.NoError(t, c.Run(ctx, "list", nil))
	assert.Contains(t, term.out.String(), "No blogs yet.")

	term.input()
	require.NoError(t, c.Run(ctx, "logout", nil))
	assert.Contains(t, term.out.String(), "Logged out")

	term.input()
	require.NoError(t, c.Run(ctx, "logout", nil))
	assert.Contains(t, term.out.String(), "Not logged in.")
}

func TestCli_AnonymousAndForeignPosts(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)
	owner, ownerTerm := newTestCli(t, baseURL)
	other, otherTerm := newTestCli(t, baseURL)

	ownerTerm.input("root", "Superuser", "sekret", "sekret")
	require.NoError(t, owner.Run(ctx, "register", nil))
	ownerTerm.input()
	require.NoError(t, owner.Run(ctx, "add", []string{"-title", "Mine", "-url", "http://mine"}))

	posts, err := owner.apiClient.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	id := posts[0].ID

	// Анонимный пользователь может лайкать, но не удалять
	otherTerm.input()
	require.NoError(t, other.Run(ctx, "like", []string{id}))
	assert.Contains(t, otherTerm.out.String(), "now has 1 likes")

	otherTerm.input()
	err = other.Run(ctx, "delete", []string{id})
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)

	// Другой пользователь не может удалить чужую запись
	otherTerm.input("mluukkai", "Matti Luukkainen", "salainen", "salainen")
	require.NoError(t, other.Run(ctx, "register", nil))
	otherTerm.input()
	err = other.Run(ctx, "delete", []string{id})
	require.Error(t, err)
	assert.Equal(t, 403, api.StatusCode(err))

	// Анонимная запись без владельца
	anon, anonTerm := newTestCli(t, baseURL)
	anonTerm.input()
	require.NoError(t, anon.Run(ctx, "add", []string{"-title", "Nobody's", "-url", "http://anon"}))
	assert.NotContains(t, anonTerm.out.String(), "Owner:")
}

func TestCli_Errors(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)
	c, term := newTestCli(t, baseURL)

	tests := []struct {
		wantErr    error
		name       string
		command    string
		args       []string
		inputs     []string
		wantStatus int
	}{
		{
			name:    "unknown command",
			command: "sync",
			wantErr: ErrUsage,
		},
		{
			name:    "like without id",
			command: "like",
			wantErr: ErrUsage,
		},
		{
			name:    "like with bad number",
			command: "like",
			args:    []string{"some-id", "many"},
			wantErr: ErrUsage,
		},
		{
			name:    "delete without id",
			command: "delete",
			wantErr: ErrUsage,
		},
		{
			name:    "add with unknown flag",
			command: "add",
			args:    []string{"-color", "red"},
			wantErr: ErrUsage,
		},
		{
			name:       "add without url",
			command:    "add",
			args:       []string{"-title", "No url"},
			inputs:     []string{""},
			wantStatus: 400,
		},
		{
			name:       "like missing post",
			command:    "like",
			args:       []string{"missing"},
			wantStatus: 404,
		},
		{
			name:       "login with wrong password",
			command:    "login",
			inputs:     []string{"nobody", "wrong"},
			wantStatus: 401,
		},
		{
			name:    "register with mismatched passwords",
			command: "register",
			inputs:  []string{"mluukkai", "Matti", "salainen", "other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term.input(tt.inputs...)
			err := c.Run(ctx, tt.command, tt.args)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, api.StatusCode(err))
			}
		})
	}
}

func TestCli_Help(t *testing.T) {
	c, term := newTestCli(t, "http://unused")

	term.input()
	require.NoError(t, c.Run(context.Background(), "help", nil))
	assert.Contains(t, term.out.String(), "Commands:")
	assert.Contains(t, term.out.String(), "like <id> [likes]")
}
