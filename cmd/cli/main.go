package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	flag "github.com/spf13/pflag"

	"github.com/hoyle1974/openhours"
	"github.com/hoyle1974/openhours/storage"
	"github.com/hoyle1974/openhours/telemetry"
	"github.com/hoyle1974/openhours/temporal"
)

const usage = `usage: openhours [flags] <command> [args]

commands:
  put NAME RANGE...      store the opening ranges of a day, e.g. put bar 20:00-02:00
  get NAME               show a stored day
  list                   list stored days
  delete NAME            remove a stored day
  open NAME [MOMENT]     tell whether a day is open at MOMENT (default now)
  check RANGE [MOMENT]   show how a single range anchors around MOMENT

MOMENT is RFC 3339 or "2006-01-02T15:04" in the --tz location.

flags:
`

type options struct {
	source   string
	uri      string
	bucket   string
	region   string
	endpoint string
	tz       string
	debug    bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	flags := flag.NewFlagSet("openhours", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.source, "source", "s", "disk", "The storage to work against (memory, disk, s3)")
	flags.StringVarP(&opts.uri, "uri", "u", ".", "The base directory for disk storage")
	flags.StringVar(&opts.bucket, "bucket", "", "The bucket for s3 storage")
	flags.StringVar(&opts.region, "region", "us-east-1", "The region for s3 storage")
	flags.StringVar(&opts.endpoint, "endpoint", "", "Override the s3 endpoint, e.g. for localstack")
	flags.StringVar(&opts.tz, "tz", "Local", "The location moments are read and shown in")
	flags.BoolVar(&opts.debug, "debug", false, "Log debug output")
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("no command given")
	}

	loc, err := time.LoadLocation(opts.tz)
	if err != nil {
		return errors.Wrapf(err, "unknown location %q", opts.tz)
	}

	logger := telemetry.NewZeroLogger(stderr, opts.debug)

	store, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	hours := openhours.NewStore(store, openhours.WithLogger(logger))

	err = runCommand(ctx, hours, flags.Arg(0), flags.Args()[1:], loc, stdout)
	logger.Debug(hours.CacheStats().String())
	if errors.Is(err, errUnknownCommand) {
		flags.Usage()
	}
	return err
}

var errUnknownCommand = errors.New("unknown command")

func runCommand(ctx context.Context, hours openhours.Store, cmd string, rest []string, loc *time.Location, stdout io.Writer) error {
	switch cmd {
	case "put":
		if len(rest) < 1 {
			return errors.New("put needs a day name")
		}
		day, err := hours.Put(ctx, rest[0], rest[1:]...)
		if err != nil {
			return err
		}
		printDay(stdout, day)
	case "get":
		if len(rest) != 1 {
			return errors.New("get needs a day name")
		}
		day, err := hours.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		printDay(stdout, day)
	case "list":
		names, err := hours.Names(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}
	case "delete":
		if len(rest) != 1 {
			return errors.New("delete needs a day name")
		}
		return hours.Delete(ctx, rest[0])
	case "open":
		if len(rest) < 1 || len(rest) > 2 {
			return errors.New("open needs a day name and an optional moment")
		}
		moment, err := momentArg(rest[1:], loc)
		if err != nil {
			return err
		}
		return printOpen(ctx, stdout, hours, rest[0], moment)
	case "check":
		if len(rest) < 1 || len(rest) > 2 {
			return errors.New("check needs a range and an optional moment")
		}
		r, err := temporal.ParseTimeRange(rest[0])
		if err != nil {
			return err
		}
		moment, err := momentArg(rest[1:], loc)
		if err != nil {
			return err
		}
		printCheck(stdout, r, moment)
	default:
		return errors.Wrapf(errUnknownCommand, "%q", cmd)
	}

	return nil
}

func openStore(ctx context.Context, opts options) (storage.System, error) {
	switch opts.source {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "disk":
		return storage.NewDiskStorage(opts.uri), nil
	case "s3":
		if opts.bucket == "" {
			return nil, errors.New("s3 storage needs --bucket")
		}
		cfgOpts := []func(*s3config.LoadOptions) error{s3config.WithRegion(opts.region)}
		if opts.endpoint != "" {
			cfgOpts = append(cfgOpts, s3config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")))
		}
		cfg, err := s3config.LoadDefaultConfig(ctx, cfgOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load aws config")
		}
		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			if opts.endpoint != "" {
				o.BaseEndpoint = aws.String(opts.endpoint)
				o.UsePathStyle = true
			}
		})
		return storage.NewS3Storage(client, opts.bucket), nil
	}
	return nil, errors.Newf("unsupported storage system: %s", opts.source)
}

func momentArg(args []string, loc *time.Location) (time.Time, error) {
	if len(args) == 0 {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, args[0]); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", args[0], loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "can not read moment %q", args[0])
	}
	return t, nil
}

func printDay(w io.Writer, day openhours.Day) {
	ranges := "closed"
	if len(day.Ranges) > 0 {
		ranges = strings.Join(day.Ranges, ", ")
	}
	fmt.Fprintf(w, "%s: %s\n", day.Name, ranges)
	fmt.Fprintf(w, "revision %s updated %s\n", day.Revision, day.Updated.Format(time.RFC3339))
}

func printOpen(ctx context.Context, w io.Writer, hours openhours.Store, name string, moment time.Time) error {
	open, err := hours.IsOpenAt(ctx, name, moment)
	if err != nil {
		return err
	}

	state, next := "closed", hours.NextOpen
	if open {
		state, next = "open", hours.NextClose
	}
	fmt.Fprintf(w, "%s is %s at %s\n", name, state, moment.Format(time.RFC3339))

	at, err := next(ctx, name, moment)
	if errors.Is(err, openhours.ErrNoRanges) {
		return nil
	}
	if err != nil {
		return err
	}
	if open {
		fmt.Fprintf(w, "closes at %s\n", at.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "opens at %s\n", at.Format(time.RFC3339))
	}
	return nil
}

func printCheck(w io.Writer, r temporal.TimeRange, moment time.Time) {
	clock := temporal.TimeFromDateTime(moment)

	fmt.Fprintf(w, "range      %s\n", r.Format("", "", moment.Location()))
	fmt.Fprintf(w, "reversed   %t\n", r.IsReversed())
	fmt.Fprintf(w, "contains   %t\n", r.ContainsTime(clock) || r.ContainsNightTime(clock))
	fmt.Fprintf(w, "start on   %s\n", r.StartOn(moment).Format(time.RFC3339))
	fmt.Fprintf(w, "end on     %s\n", r.EndOn(moment).Format(time.RFC3339))
	fmt.Fprintf(w, "start next %s\n", r.StartAfter(moment).Format(time.RFC3339))
	fmt.Fprintf(w, "end next   %s\n", r.EndAfter(moment).Format(time.RFC3339))
	fmt.Fprintf(w, "start prev %s\n", r.StartBefore(moment).Format(time.RFC3339))
	fmt.Fprintf(w, "end prev   %s\n", r.EndBefore(moment).Format(time.RFC3339))
}
