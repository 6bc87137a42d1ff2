package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/WessleyAI/wessley-engines/engine/lint"
	"github.com/WessleyAI/wessley-engines/pkg/natsutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ReportEvent is the message published for every lint run.
type ReportEvent struct {
	Source      string      `json:"source"`
	GeneratedAt time.Time   `json:"generatedAt"`
	OK          bool        `json:"ok"`
	Report      lint.Report `json:"report"`
}

func (a *app) lintCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check every engine page and its JSON-LD; exits non-zero on errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.open()
			if err != nil {
				return err
			}
			report := lint.Catalog(cat)

			switch format {
			case "table":
				a.renderFindings(report)
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			if a.cfg.NATSURL != "" {
				ev := ReportEvent{Source: a.source(), GeneratedAt: time.Now().UTC(), OK: report.OK(), Report: report}
				if err := a.publish(cmd.Context(), ev); err != nil {
					return err
				}
			}
			return report.Err()
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")
	natsFlags(cmd)
	return cmd
}

func (a *app) renderFindings(r lint.Report) {
	if len(r.Findings) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(a.out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Severity", "Brand", "Engine", "Rule", "Message"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Message", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		})
		for _, f := range r.Findings {
			t.AppendRow(table.Row{f.Severity, f.Brand, f.Engine, f.Rule, f.Message})
		}
		t.Render()
	}
	fmt.Fprintf(a.out, "%d engine(s), %d error(s), %d warning(s)\n", r.Engines, len(r.Errors()), len(r.Warnings()))
}

func (a *app) publish(ctx context.Context, ev ReportEvent) error {
	ctx, span := otel.Tracer("enginectl").Start(ctx, "lint.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.destination", a.cfg.NATSSubject),
		attribute.Int("lint.engines", ev.Report.Engines),
		attribute.Bool("lint.ok", ev.OK),
	)

	nc, err := natsutil.Connect(a.cfg.NATSURL, "enginectl")
	if err != nil {
		return err
	}
	defer nc.Close()

	if err := natsutil.Publish(ctx, nc, a.cfg.NATSSubject, ev); err != nil {
		return err
	}
	if err := nc.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("flush %s: %w", a.cfg.NATSURL, err)
	}
	a.logger.Info("lint report published", "subject", a.cfg.NATSSubject, "ok", ev.OK, "findings", len(ev.Report.Findings))
	return nil
}

func (a *app) watchCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print lint reports published by other enginectl runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.NATSURL == "" {
				return errors.New("watch needs --nats-url or ENGINES_NATS_URL")
			}
			nc, err := natsutil.Connect(a.cfg.NATSURL, "enginectl-watch")
			if err != nil {
				return err
			}
			defer nc.Close()

			var (
				mu   sync.Mutex
				seen int
				done = make(chan struct{})
			)
			sub, err := natsutil.Subscribe(nc, a.cfg.NATSSubject, func(_ context.Context, ev ReportEvent) {
				mu.Lock()
				defer mu.Unlock()
				if count > 0 && seen >= count {
					return
				}
				seen++
				fmt.Fprintf(a.out, "%s %s ok=%t engines=%d errors=%d warnings=%d\n",
					ev.GeneratedAt.Format(time.RFC3339), ev.Source, ev.OK,
					ev.Report.Engines, len(ev.Report.Errors()), len(ev.Report.Warnings()))
				if count > 0 && seen == count {
					close(done)
				}
			}, func(err error) {
				a.logger.Warn("dropping malformed report", "err", err)
			})
			if err != nil {
				return err
			}
			defer sub.Unsubscribe()
			a.logger.Info("watching lint reports", "subject", a.cfg.NATSSubject)

			select {
			case <-done:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many reports (0 runs until interrupted)")
	natsFlags(cmd)
	return cmd
}
