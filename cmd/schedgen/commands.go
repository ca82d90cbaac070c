package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/app/models/dto"
	"github.com/yigit/coursegen/internal/app/services"
	"github.com/yigit/coursegen/internal/catalog"
	"github.com/yigit/coursegen/internal/pkg/logger"
	"github.com/yigit/coursegen/internal/scheduler"
)

type generateOptions struct {
	catalogPath string
	term        string
	courses     []string
	restricts   []string
	exclude     []string
	waitlist    int
	seed        uint64
	timeout     time.Duration
	loadMore    bool
	logLevel    string
}

// staticCatalog serves one snapshot loaded at startup
type staticCatalog struct {
	snap *catalog.Snapshot
}

func (s staticCatalog) Current() *catalog.Snapshot { return s.snap }

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "schedgen",
		Short:         "Generate conflict-free class schedules from a catalog file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newGenerateCmd(stdout, stderr))
	root.AddCommand(newCategoriesCmd(stdout))
	return root
}

func newGenerateCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Search for schedules and print them as JSON",
		Example: `  schedgen generate --catalog catalog.yaml --course CMSC131 --course "MATH140(0101|0201)" \
    --restrict "TuTh 9:00am-10:30am" --waitlist 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var seed *uint64
			if cmd.Flags().Changed("seed") {
				seed = &opts.seed
			}
			return runGenerate(cmd, opts, seed, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "YAML catalog file")
	flags.StringVar(&opts.term, "term", "", "term to expect in the catalog (defaults to the file's term)")
	flags.StringArrayVarP(&opts.courses, "course", "c", nil, `course token, e.g. CMSC131, "MATH140(0101|0201)" or DSNL`)
	flags.StringArrayVarP(&opts.restricts, "restrict", "r", nil, `window to keep free, e.g. "TuTh 9:00am-10:30am"`)
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "comma separated section ids of a schedule already seen")
	flags.IntVar(&opts.waitlist, "waitlist", -1, "maximum waitlist length, -1 for no limit")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible output")
	flags.DurationVar(&opts.timeout, "timeout", scheduler.DefaultTimeout, "search time budget")
	flags.BoolVar(&opts.loadMore, "load-more", false, "continue a previous search, never reporting a timeout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func newCategoriesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the requirement category codes a course token may use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := services.NewScheduleService(staticCatalog{}, nil, services.ScheduleServiceOptions{}, zerolog.Nop())
			return writeJSON(stdout, svc.Categories())
		},
	}
}

func runGenerate(cmd *cobra.Command, opts *generateOptions, seed *uint64, stdout, stderr io.Writer) error {
	logger.Configure(logger.Config{
		Level:  logger.ParseLevel(opts.logLevel),
		Pretty: true,
		Output: stderr,
	})
	lgr := logger.Component("schedgen")

	snap, err := loadSnapshot(opts.catalogPath, models.Term(opts.term), lgr)
	if err != nil {
		return err
	}

	req := &dto.GenerateScheduleRequest{
		Courses:  opts.courses,
		LoadMore: opts.loadMore,
	}
	if opts.waitlist >= 0 {
		req.MaxWaitlist = &opts.waitlist
	}
	for _, token := range opts.restricts {
		r, err := scheduler.ParseRestrictionToken(token)
		if err != nil {
			return err
		}
		req.Restrictions = append(req.Restrictions, dto.RestrictionRequest{
			Days:  r.Days.String(),
			Start: r.Start.String(),
			End:   r.End.String(),
		})
	}
	for _, ids := range opts.exclude {
		schedule, err := parseSectionIDs(ids)
		if err != nil {
			return err
		}
		req.PreviousSchedules = append(req.PreviousSchedules, schedule)
	}

	svc := services.NewScheduleService(staticCatalog{snap: snap}, nil, services.ScheduleServiceOptions{
		Timeout: opts.timeout,
		Seed:    seed,
	}, lgr)

	resp, err := svc.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

// loadSnapshot reads the catalog file. An empty term accepts whatever term the file holds.
func loadSnapshot(path string, term models.Term, lgr zerolog.Logger) (*catalog.Snapshot, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer fh.Close()

	file, err := catalog.DecodeFile(fh)
	if err != nil {
		return nil, err
	}
	if term == "" {
		term = models.Term(file.Term)
	} else if file.Term != "" && models.Term(file.Term) != term {
		return nil, fmt.Errorf("catalog file %s holds term %s, want %s", path, file.Term, term)
	}

	courses, sections := file.Models(lgr)
	return catalog.NewSnapshot(term, courses, sections), nil
}

func parseSectionIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid section id %q in --exclude: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
