package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/config"
	"github.com/spec-kit/cryptid/internal/persistence"
)

func secretFlag(dst *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "secret",
		Usage:       "HS256 signing key",
		EnvVars:     []string{"AUTH_JWT_SECRET"},
		Destination: dst,
		Required:    true,
	}
}

func hashCmd() *cli.Command {
	var cost int
	return &cli.Command{
		Name:      "hash",
		Usage:     "Print the bcrypt hash of a password (read from the argument or stdin)",
		ArgsUsage: "[PASSWORD]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "cost",
				Usage:       "bcrypt cost",
				Value:       bcrypt.DefaultCost,
				Destination: &cost,
			},
		},
		Action: func(ctx *cli.Context) error {
			password := ctx.Args().First()
			if password == "" {
				sc := bufio.NewScanner(ctx.App.Reader)
				if !sc.Scan() {
					if err := sc.Err(); err != nil {
						return err
					}
					return errors.New("missing password")
				}
				password = strings.TrimSpace(sc.Text())
			}
			if password == "" {
				return errors.New("missing password")
			}
			hashed, err := auth.NewPasswordHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(ctx.App.Writer, hashed)
			return err
		},
	}
}

func issueCmd() *cli.Command {
	var (
		secret  string
		subject string
		roles   cli.StringSlice
		ttl     time.Duration
	)
	return &cli.Command{
		Name:  "issue",
		Usage: "Sign an access token without checking a password",
		Flags: []cli.Flag{
			secretFlag(&secret),
			&cli.StringFlag{
				Name:        "sub",
				Usage:       "subject (user id)",
				Destination: &subject,
				Required:    true,
			},
			&cli.StringSliceFlag{
				Name:        "role",
				Usage:       "role carried by the token, repeatable",
				Destination: &roles,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "token lifetime, negative for no expiry",
				Value:       15 * time.Minute,
				Destination: &ttl,
			},
		},
		Action: func(ctx *cli.Context) error {
			codec := auth.NewTokenCodec(secret, nil)
			issued, err := codec.Encode(auth.NewClaims(subject, roles.Value()), &ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(ctx.App.Writer, issued.AccessToken)
			return err
		},
	}
}

func decodeCmd() *cli.Command {
	var secret string
	return &cli.Command{
		Name:      "decode",
		Usage:     "Verify a token and print its claims as JSON",
		ArgsUsage: "TOKEN",
		Flags:     []cli.Flag{secretFlag(&secret)},
		Action: func(ctx *cli.Context) error {
			token := ctx.Args().First()
			if token == "" {
				return errors.New("missing token")
			}
			claims, err := auth.NewTokenCodec(secret, nil).Decode(token)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(ctx.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(claims)
		},
	}
}

func migrateCmd() *cli.Command {
	var dsn string
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dsn",
				Usage:       "Postgres connection string",
				EnvVars:     []string{"POSTGRES_DSN"},
				Destination: &dsn,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			pg, err := persistence.NewPostgres(ctx.Context, config.PostgresConfig{DSN: dsn, MaxConns: 2, MinConns: 1}, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			return persistence.RunMigrations(ctx.Context, pg.PoolHandle(), logger)
		},
	}
}
