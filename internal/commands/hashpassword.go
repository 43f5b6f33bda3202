package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/password"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// NewHashPasswordCmd prints the bcrypt hash to put in admin.password_hash.
func NewHashPasswordCmd() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for admin.password_hash",
		Long: "Prompts twice for the admin password and prints its bcrypt hash.\n" +
			"With --stdin the password is read from the first line of standard input.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				hash string
				err  error
			)
			if fromStdin || !term.IsTerminal(int(os.Stdin.Fd())) {
				hash, err = HashFromReader(cmd.InOrStdin())
			} else {
				hash, err = hashInteractive(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the password from standard input")
	return cmd
}

// HashFromReader hashes the first line of r.
func HashFromReader(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password.GetHash(strings.TrimRight(line, "\r\n"))
}

func hashInteractive(prompt io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())

	fmt.Fprint(prompt, "Enter password:   ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(prompt, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if string(first) != string(second) {
		return "", ErrPasswordMismatch
	}
	return password.GetHash(string(first))
}
