package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/simp-lee/logger"
	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/session"
	"github.com/simp-lee/posadmin/internal/transport"
)

const defaultConfigPath = "configs/config.yaml"

// cli carries what every command shares. Heavy dependencies are opened on
// first use so that commands such as stub never touch the session store.
type cli struct {
	configPath string
	envFile    string
	csv        bool

	cfg    *config.Config
	log    *logger.Logger
	logger *slog.Logger

	tc      *transport.Client
	closers []func() error
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "posadmin",
		Short:         "Administer a POS back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath, "path to configuration file")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	root.PersistentFlags().BoolVar(&c.csv, "csv", false, "print lists as CSV instead of JSON")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newStubCmd(c),
	)
	root.AddCommand(familyCmds(c)...)
	return root
}

// setup loads the environment, configuration and logger.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", c.envFile, err)
	}

	path := c.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Log.Writer = cmd.ErrOrStderr()

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	c.cfg = cfg
	c.log = log
	c.logger = log.Logger
	return nil
}

// client opens the session store and returns the transport client bound to it.
func (c *cli) client() (*transport.Client, error) {
	if c.tc != nil {
		return c.tc, nil
	}
	store, closeStore, err := session.Open(&c.cfg.Session, c.logger)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	c.closers = append(c.closers, closeStore)

	tc, err := transport.New(transport.ConfigFromAPI(c.cfg.API), session.New(store, c.logger), transport.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	c.tc = tc
	return tc, nil
}

func (c *cli) close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	c.tc = nil
	if c.log != nil {
		errs = append(errs, c.log.Close())
		c.log = nil
	}
	return errors.Join(errs...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printList writes items as CSV when --csv is set and a renderer exists,
// and as JSON otherwise.
func printList[T any](ctx context.Context, c *cli, w io.Writer, items []T, render csvFunc[T]) error {
	if c.csv && render != nil {
		tc, err := c.client()
		if err != nil {
			return err
		}
		out, err := render(ctx, tc, items)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return printJSON(w, items)
}

// readJSON decodes a JSON document from path, or from in when path is "-".
func readJSON(in io.Reader, path string, v any) error {
	r := in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}
