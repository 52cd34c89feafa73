package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"linkbatch/internal/backend"
	"linkbatch/internal/bulk"
	"linkbatch/internal/config"
	"linkbatch/internal/output"

	"github.com/google/uuid"
)

func exitCodeForRun(fatal, anyFailed bool) int {
	// Exit code contract:
	// 0 = clean run, every item succeeded
	// 1 = some items failed
	// 3 = fatal error (batch did not run)
	if fatal {
		return 3
	}
	if anyFailed {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// actionLabel renders the configured action for events and summaries,
// including the tag/list parameters so a report is self-describing.
func actionLabel(cfg *config.Config) string {
	switch cfg.Action.Name {
	case config.ActionTag:
		if len(cfg.Action.AddTags) > 0 {
			return "tag +" + strings.Join(cfg.Action.AddTags, ",")
		}
		return "tag -" + strings.Join(cfg.Action.RemoveTags, ",")
	case config.ActionList:
		if cfg.Action.AddToList != "" {
			return "list +" + cfg.Action.AddToList
		}
		return "list -" + cfg.Action.RemoveFromList
	default:
		return cfg.Action.Name
	}
}

func runAction(ctx context.Context, cfg *config.Config, m *bulk.Mutator, ids []string) (bulk.Result, error) {
	switch cfg.Action.Name {
	case config.ActionFavorite:
		return m.Favorite(ctx, ids)
	case config.ActionUnfavorite:
		return m.Unfavorite(ctx, ids)
	case config.ActionArchive:
		return m.Archive(ctx, ids)
	case config.ActionUnarchive:
		return m.Unarchive(ctx, ids)
	case config.ActionDelete:
		return m.Delete(ctx, ids)
	case config.ActionTag:
		if len(cfg.Action.AddTags) > 0 {
			return m.AttachTags(ctx, ids, cfg.Action.AddTags)
		}
		return m.DetachTags(ctx, ids, cfg.Action.RemoveTags)
	case config.ActionList:
		if cfg.Action.AddToList != "" {
			return m.AddToList(ctx, cfg.Action.AddToList, ids)
		}
		return m.RemoveFromList(ctx, cfg.Action.RemoveFromList, ids)
	default:
		return bulk.Result{}, fmt.Errorf("unknown action %q", cfg.Action.Name)
	}
}

type Engine struct {
	Backend *backend.Client

	// newRunID is a test seam for deterministic run identifiers.
	newRunID func() string
}

func NewEngine(client *backend.Client) *Engine {
	return &Engine{
		Backend:  client,
		newRunID: uuid.NewString,
	}
}

func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if !cfg.Output.NoConsole {
		fmt.Fprintln(os.Stderr, "Resolving bookmarks...")
	}
	ids, err := ResolveIDs(ctx, e.Backend, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving bookmarks: %v\n", err)
		return exitCodeForRun(true, false)
	}
	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Found %d bookmarks.\n", len(ids))
	}

	if cfg.Selection.DryRun {
		fmt.Println("Resolved bookmarks:")
		for _, id := range ids {
			fmt.Println(id)
		}
		return 0
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false)
	}
	defer outMgr.Close()

	runID := e.newRunID()
	label := actionLabel(cfg)
	_ = outMgr.Write(output.Event{Type: "run.started", Run: runID, Action: label, Total: len(ids)})

	// The aggregator invokes onProgress serially, so the seen counter needs
	// no lock even though this runs off the engine goroutine.
	seenFailures := 0
	onProgress := func(s bulk.Snapshot) {
		for _, f := range s.Errors[seenFailures:] {
			_ = outMgr.Write(output.ItemFailedEvent(f))
		}
		seenFailures = len(s.Errors)
		_ = outMgr.Write(output.ProgressEvent(s))
	}

	mut := &bulk.Mutator{
		Backend:     e.Backend,
		Concurrency: cfg.Runtime.Concurrency,
		OnProgress:  onProgress,
	}
	res, err := runAction(ctx, cfg, mut, ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false)
	}

	code := exitCodeForRun(false, len(res.Failed) > 0)
	_ = outMgr.Write(output.Summary{
		Run:       runID,
		Action:    label,
		Total:     len(ids),
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		ExitCode:  code,
	})
	return code
}
