package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/regcompare/internal/core/compare"
	"github.com/agenthands/regcompare/internal/core/matcher"
	"github.com/agenthands/regcompare/internal/core/model"
	"github.com/agenthands/regcompare/internal/driver"
	"github.com/agenthands/regcompare/internal/metrics"
)

var (
	ErrNoArchive   = errors.New("run archive not configured")
	ErrRunNotFound = errors.New("comparison run not found")
)

// Engine runs comparisons and, when a driver is set, archives each run.
type Engine struct {
	Driver        driver.GraphDriver
	Matcher       *matcher.Matcher
	Metrics       *metrics.Collector
	Logger        *slog.Logger
	UUIDGenerator func() string
	Now           func() time.Time
}

// NewEngine wires an engine. drv and m may be nil.
func NewEngine(drv driver.GraphDriver, opts matcher.Options, m *metrics.Collector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Driver:        drv,
		Matcher:       matcher.NewMatcher(opts, logger),
		Metrics:       m,
		Logger:        logger,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) BuildIndices(ctx context.Context) error {
	if e.Driver == nil {
		return ErrNoArchive
	}
	return e.Driver.BuildIndices(ctx)
}

// Compare validates both pages, runs every facet and assigns the report a
// run id. An archive failure still returns the report along with the error.
func (e *Engine) Compare(ctx context.Context, first, second *model.Page) (*compare.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range []*model.Page{first, second} {
		if err := p.Validate(); err != nil {
			e.observeFailure("failed")
			return nil, fmt.Errorf("invalid page: %w", err)
		}
	}

	start := e.Now()
	c := compare.New(first, second, compare.WithMatcher(e.Matcher), compare.WithLogger(e.Logger))
	rep := c.Run()
	rep.ID = e.UUIDGenerator()
	elapsed := e.Now().Sub(start)

	if e.Driver != nil {
		if err := e.archive(ctx, rep, c.Participants(), start); err != nil {
			e.observeFailure("archive_failed")
			return rep, fmt.Errorf("failed to archive run %s: %w", rep.ID, err)
		}
	}

	if e.Metrics != nil {
		e.Metrics.ObserveReport(rep, elapsed)
	}
	e.Logger.Info("comparison finished",
		"run", rep.ID,
		"first", rep.FirstLocation,
		"second", rep.SecondLocation,
		"matches", rep.Summary.People.TotalMatches,
		"errors", rep.Summary.TotalErrors(),
		"elapsed", elapsed)
	return rep, nil
}

func (e *Engine) observeFailure(outcome string) {
	if e.Metrics != nil {
		e.Metrics.ObserveFailure(outcome)
	}
}

func (e *Engine) archive(ctx context.Context, rep *compare.Report, people []compare.Participant, at time.Time) error {
	summary, err := json.Marshal(rep.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	runParams := map[string]any{
		"uuid":            rep.ID,
		"first_location":  rep.FirstLocation,
		"second_location": rep.SecondLocation,
		"created_at":      at.Format(time.RFC3339Nano),
		"total_matches":   rep.Summary.People.TotalMatches,
		"precision_rate":  rep.Summary.People.PrecisionRate,
		"recall_rate":     rep.Summary.People.RecallRate,
		"total_errors":    rep.Summary.TotalErrors(),
		"summary":         string(summary),
	}
	if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, runParams); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if len(people) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(people))
	for _, p := range people {
		rows = append(rows, map[string]any{
			"side":         p.Side,
			"entry_id":     p.EntryID,
			"person_id":    int64(p.PersonID),
			"name":         p.Name,
			"relationship": p.Relationship,
			"matched":      p.Matched,
		})
	}
	if _, err := e.Driver.ExecuteQuery(ctx, driver.SavePeopleQuery, map[string]any{
		"run_uuid": rep.ID,
		"people":   rows,
	}); err != nil {
		return fmt.Errorf("failed to save people: %w", err)
	}

	var matches []map[string]any
	for _, entry := range rep.People.Details {
		for _, m := range entry.Matches {
			matches = append(matches, map[string]any{
				"entry_id":   entry.EntryID,
				"person1_id": int64(m.Person1ID),
				"person2_id": int64(m.Person2ID),
				"match_type": string(m.MatchType),
			})
		}
	}
	if len(matches) == 0 {
		return nil
	}
	if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveMatchesQuery, map[string]any{
		"run_uuid": rep.ID,
		"matches":  matches,
	}); err != nil {
		return fmt.Errorf("failed to save matches: %w", err)
	}
	return nil
}

// RunRecord is an archived comparison run.
type RunRecord struct {
	ID             string          `json:"id"`
	FirstLocation  string          `json:"first_location"`
	SecondLocation string          `json:"second_location"`
	CreatedAt      time.Time       `json:"created_at"`
	Summary        compare.Summary `json:"summary"`
}

func (e *Engine) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if e.Driver == nil {
		return nil, ErrNoArchive
	}
	res, err := e.Driver.ExecuteQuery(ctx, driver.GetRunQuery, map[string]any{"uuid": id})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return decodeRun(res.Records[0])
}

func (e *Engine) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if e.Driver == nil {
		return nil, ErrNoArchive
	}
	if limit <= 0 {
		limit = 20
	}
	res, err := e.Driver.ExecuteQuery(ctx, driver.ListRunsQuery, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	runs := make([]RunRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		run, err := decodeRun(rec)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// MatchCounts reads back the archived correspondences of a run by type.
func (e *Engine) MatchCounts(ctx context.Context, id string) (map[model.MatchType]int, error) {
	if e.Driver == nil {
		return nil, ErrNoArchive
	}
	res, err := e.Driver.ExecuteQuery(ctx, driver.CountMatchesByTypeQuery, map[string]any{"uuid": id})
	if err != nil {
		return nil, err
	}
	counts := make(map[model.MatchType]int, len(model.MatchTypes))
	for _, rec := range res.Records {
		t, _ := rec.Get("type")
		n, _ := rec.Get("count")
		name, ok := t.(string)
		if !ok {
			continue
		}
		if c, ok := n.(int64); ok {
			counts[model.MatchType(name)] = int(c)
		}
	}
	return counts, nil
}

func (e *Engine) DeleteRun(ctx context.Context, id string) error {
	if e.Driver == nil {
		return ErrNoArchive
	}
	_, err := e.Driver.ExecuteQuery(ctx, driver.DeleteRunQuery, map[string]any{"uuid": id})
	return err
}

func decodeRun(rec *neo4j.Record) (*RunRecord, error) {
	get := func(key string) string {
		v, _ := rec.Get(key)
		s, _ := v.(string)
		return s
	}

	run := &RunRecord{
		ID:             get("uuid"),
		FirstLocation:  get("first_location"),
		SecondLocation: get("second_location"),
	}
	if ts := get("created_at"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", run.ID, ts, err)
		}
		run.CreatedAt = t
	}
	if s := get("summary"); s != "" {
		if err := json.Unmarshal([]byte(s), &run.Summary); err != nil {
			return nil, fmt.Errorf("run %s: bad summary: %w", run.ID, err)
		}
	}
	return run, nil
}
