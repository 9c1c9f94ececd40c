package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх стандартных потоков процесса
type Stdio struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	isTerm bool
}

// NewStdio создает IO для os.Stdin и os.Stdout
func NewStdio() IO {
	fd := int(os.Stdin.Fd())
	return &Stdio{
		out:    os.Stdout,
		reader: bufio.NewReader(os.Stdin),
		fd:     fd,
		isTerm: term.IsTerminal(fd),
	}
}

// newStdio используется в тестах: ввод не является терминалом
func newStdio(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

// ReadPassword читает пароль без эха. Если stdin не терминал (pipe),
// пароль читается обычной строкой.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !s.isTerm {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(s.fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	// последняя строка без перевода строки тоже считается вводом
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
