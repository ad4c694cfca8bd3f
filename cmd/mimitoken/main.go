// Command mimitoken prints secret keys and identity tokens for local runs and manual testing.
//
//	mimitoken secret
//	mimitoken token --account <uuid> --role staff --secret-key <key> [--ttl 1h]
package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/identity"
)

const SecretKeyBytesLen = 32

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mimitoken: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("expected 'secret' or 'token' subcommand")
	}

	switch args[0] {
	case "secret":
		secret, err := newSecret()
		if err != nil {
			return fmt.Errorf("error while generating secret key: %w", err)
		}
		_, err = fmt.Fprintln(out, secret)
		return err
	case "token":
		return issueToken(args[1:], getenv, out)
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func newSecret() (string, error) {
	b := make([]byte, SecretKeyBytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func issueToken(args []string, getenv func(string) string, out io.Writer) error {
	var (
		accountID string
		role      string
		secretKey = getenv("SECRET_KEY")
		ttl       time.Duration
	)

	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.StringVar(&accountID, "account", "", "Account id the token is issued for")
	fs.StringVar(&role, "role", models.RoleCustomer, "Role (customer, staff, admin)")
	fs.StringVarP(&secretKey, "secret-key", "s", secretKey, "Secret key, SECRET_KEY by default")
	fs.DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	tokens, err := identity.New(identity.Config{SecretKey: secretKey, AccessTTL: ttl})
	if err != nil {
		return err
	}

	issued, err := tokens.Issue(models.Identity{AccountID: id, Role: role})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, issued.Value)
	return err
}
