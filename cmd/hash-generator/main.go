// Command hash-generator prints the bcrypt hash of a password, for seeding
// users directly in the database.
//
// On a terminal the password is read without echo; otherwise the first line
// of stdin is used.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost factor")
	flag.Parse()

	fd := int(os.Stdin.Fd())
	var readPassword func() (string, error)
	if term.IsTerminal(fd) {
		readPassword = func() (string, error) {
			fmt.Fprint(os.Stderr, "Password: ")
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			return string(b), err
		}
	} else {
		readPassword = func() (string, error) {
			return readLine(os.Stdin)
		}
	}

	if err := run(readPassword, os.Stdout, *cost); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(readPassword func() (string, error), out io.Writer, cost int) error {
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher(cost).Hash(password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
