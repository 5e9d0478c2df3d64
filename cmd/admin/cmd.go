package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errUnknownMigration = errors.New("migrate expects one of: up, down, status")
)

// AccountManager is the subset of the auth service the CLI drives
type AccountManager interface {
	EnsureSuperAdmin(ctx context.Context, studentID, name, password string) (bool, error)
	ResetPassword(ctx context.Context, studentID, password string) error
	SetActive(ctx context.Context, studentID string, active bool) error
}

type migrateFunc func(ctx context.Context, direction string) error

type commandLine struct {
	accounts AccountManager
	migrate  migrateFunc
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|down|status                       - apply, roll back or list migrations")
	fmt.Fprintln(cli.out, "  createsuperadmin -student_id ID -name NAME   - create or upgrade a super admin, password prompted")
	fmt.Fprintln(cli.out, "  resetpassword -student_id ID                 - replace an account password, password prompted")
	fmt.Fprintln(cli.out, "  disable -student_id ID                       - block login for an account")
	fmt.Fprintln(cli.out, "  enable -student_id ID                        - allow login again")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) != 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2])

	case "createsuperadmin":
		fs := cli.flagSet("createsuperadmin")
		studentID := fs.String("student_id", "", "The account identifier. The password will be prompted next.")
		name := fs.String("name", "", "Display name, required when the account does not exist yet.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *studentID == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		created, err := cli.accounts.EnsureSuperAdmin(ctx, *studentID, *name, pwd)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cli.out, "super admin %s created\n", *studentID)
		} else {
			fmt.Fprintf(cli.out, "%s is a super admin\n", *studentID)
		}
		return nil

	case "resetpassword":
		fs := cli.flagSet("resetpassword")
		studentID := fs.String("student_id", "", "The account identifier. The password will be prompted next.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *studentID == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			fs.Usage()
			return errHelp
		}
		if err := cli.accounts.ResetPassword(ctx, *studentID, pwd); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "password of %s updated\n", *studentID)
		return nil

	case "disable", "enable":
		fs := cli.flagSet(args[1])
		studentID := fs.String("student_id", "", "The account identifier.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *studentID == "" {
			fs.Usage()
			return errHelp
		}
		active := args[1] == "enable"
		if err := cli.accounts.SetActive(ctx, *studentID, active); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s %sd\n", *studentID, args[1])
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
