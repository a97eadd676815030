// dynafetch fetches a record from a DynamoDB table by partition key, creating it from the
// supplied item when it doesn't exist.
//
// # Usage
//
//	dynafetch --table Users --pk id --item '{"id":42,"name":"Ana"}'
//
// The resolved item, existing or created, is written to stdout as JSON. Exit codes follow
// sysexits.h: 65 for malformed items, 74 for DynamoDB failures and 64 when the key is duplicated.
//
// # Configuration (optional)
//
// Create dynafetch.yaml for defaults:
//
//	region: eu-west-1
//	endpoint: http://localhost:8000
//	timeout: 5s
//	ifNotExists: true
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/rs/zerolog"

	"github.com/wolfeidau/dynafetch"
	"github.com/wolfeidau/dynafetch/localstore"
)

var version = "dev"

type args struct {
	Table string `arg:"-t,--table,required" help:"target table name"`
	Item  string `arg:"-i,--item,required" help:"item as a JSON object"`
	PK    string `arg:"--pk,required" help:"partition key field of the item"`

	Config               string `arg:"--config" help:"path to a dynafetch.yaml config file"`
	Region               string `arg:"--region,env:DYNAFETCH_REGION" help:"AWS region"`
	Endpoint             string `arg:"--endpoint,env:DYNAFETCH_ENDPOINT" help:"DynamoDB endpoint override"`
	LocalDir             string `arg:"--local-dir" help:"store tables in a local badger database in this directory"`
	IfNotExists          bool   `arg:"--if-not-exists" help:"guard the insert with a conditional write"`
	EventuallyConsistent bool   `arg:"--eventually-consistent" help:"use eventually consistent reads"`
	LogLevel             string `arg:"--log-level,env:DYNAFETCH_LOG_LEVEL" help:"trace, debug, info, warn or error"`
	LogFormat            string `arg:"--log-format" help:"console or json"`
}

func (args) Version() string {
	return "dynafetch " + version
}

func (args) Description() string {
	return "Fetch an item by partition key from a DynamoDB table, creating it when absent."
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a args

	p, err := arg.NewParser(arg.Config{Program: "dynafetch"}, &a)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitSoftware
	}

	err = p.Parse(argv)
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return ExitOK
	case errors.Is(err, arg.ErrVersion):
		fmt.Fprintln(stdout, a.Version())
		return ExitOK
	case err != nil:
		p.WriteUsage(stderr)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitUsage
	}

	for _, flag := range []struct{ name, val string }{{"--table", a.Table}, {"--item", a.Item}, {"--pk", a.PK}} {
		if flag.val == "" {
			p.WriteUsage(stderr)
			fmt.Fprintf(stderr, "error: %s must not be empty\n", flag.name)
			return ExitUsage
		}
	}

	cfg, err := LoadConfig(a.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitConfig
	}

	cfg = mergeArgs(cfg, a)

	logger, err := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitConfig
	}

	logger.Info().Str("table", a.Table).Str("pk", a.PK).Str("item", a.Item).Msg("arguments parsed")

	res, err := fetchOrCreate(ctx, logger, cfg, a)
	if err != nil {
		logger.Error().Msg(err.Error())
		return ExitCode(err)
	}

	logger.Info().Str("key", res.Key.String()).Msg(res.Outcome.String())

	if res.Item != nil {
		err = json.NewEncoder(stdout).Encode(res.Item)
		if err != nil {
			logger.Error().Msg(err.Error())
			return ExitIOErr
		}
	}

	return ExitOK
}

// mergeArgs apply flags over the file config, flags win
func mergeArgs(cfg Config, a args) Config {
	if a.Region != "" {
		cfg.Region = a.Region
	}
	if a.Endpoint != "" {
		cfg.Endpoint = a.Endpoint
	}
	if a.LocalDir != "" {
		cfg.LocalDir = a.LocalDir
	}
	if a.IfNotExists {
		cfg.IfNotExists = true
	}
	if a.EventuallyConsistent {
		cfg.ConsistentRead = aws.Bool(false)
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
	if a.LogFormat != "" {
		cfg.LogFormat = a.LogFormat
	}

	return cfg
}

func fetchOrCreate(ctx context.Context, logger zerolog.Logger, cfg Config, a args) (*dynafetch.Result, error) {
	gateway, closer, err := newGateway(logger, cfg)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	defer closer()

	opts := []dynafetch.EngineOption{
		dynafetch.WithLogger(logger),
		dynafetch.WithIfNotExists(cfg.IfNotExists),
	}

	if cfg.ConsistentRead != nil && !*cfg.ConsistentRead {
		opts = append(opts, dynafetch.WithReadOptions(dynafetch.ReadConsistentDisable()))
	}

	return dynafetch.NewEngine(gateway, opts...).FetchOrCreate(ctx, a.Table, a.Item, a.PK)
}

func newGateway(logger zerolog.Logger, cfg Config) (dynafetch.Gateway, func(), error) {
	if cfg.LocalDir != "" {
		store, err := localstore.Open(localstore.Options{Dir: cfg.LocalDir, Logger: logger})
		if err != nil {
			return nil, nil, err
		}

		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close local store")
			}
		}, nil
	}

	awscfg := &aws.Config{}
	if cfg.Region != "" {
		awscfg.Region = aws.String(cfg.Region)
	}

	session, err := dynafetch.NewWithOptions(awscfg,
		dynafetch.SessionWithStoreHooks(dynafetch.LoggingHooks(logger)),
		dynafetch.SessionWithEndpoint(cfg.Endpoint),
		dynafetch.SessionWithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug().Str("region", session.Region()).Msg("dynamodb session created")

	return session, func() {}, nil
}
