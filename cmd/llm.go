package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholarnav/internal/llm"
	"github.com/abhisek/scholarnav/internal/store"
)

func newLLMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Inspect recorded provider calls",
	}
	cmd.AddCommand(newLLMListCmd(), newLLMViewCmd(), newLLMStatsCmd())
	return cmd
}

func newLLMListCmd() *cobra.Command {
	var (
		opts  store.QueryOpts
		since time.Duration
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent provider calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOpts{})
			if err != nil {
				return err
			}
			defer s.Close()

			if since > 0 {
				opts.From = time.Now().Add(-since)
			}
			calls, err := s.store.ListLLMCalls(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query calls: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(calls) == 0 {
				fmt.Fprintln(out, "No LLM calls recorded.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Fprintln(out, strings.Repeat("─", 106))
			for _, c := range calls {
				ok := "✓"
				if !c.Success {
					ok = "✗"
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s\n",
					c.ID,
					c.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(c.Purpose, 20),
					truncate(c.Model, 28),
					c.InputTokens,
					c.OutputTokens,
					c.LatencyMs,
					ok,
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of calls to show")
	cmd.Flags().StringVarP(&opts.Purpose, "purpose", "p", "", "Only show calls with this purpose, e.g. scholarship-analysis")
	cmd.Flags().DurationVar(&since, "since", 0, "Only show calls made within this long, e.g. 24h")
	return cmd
}

func newLLMViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "View the full request and response of a call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}

			s, err := openSession(cmd, sessionOpts{})
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := s.store.GetLLMCall(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get call: %w", err)
			}
			if c == nil {
				return fmt.Errorf("call %d not found", id)
			}

			out := cmd.OutOrStdout()
			sep := strings.Repeat("─", 60)

			fmt.Fprintf(out, "ID:        %d\n", c.ID)
			fmt.Fprintf(out, "Time:      %s\n", c.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Provider:  %s\n", c.Provider)
			fmt.Fprintf(out, "Model:     %s\n", c.Model)
			fmt.Fprintf(out, "Purpose:   %s\n", c.Purpose)
			fmt.Fprintf(out, "Tokens:    %d in / %d out\n", c.InputTokens, c.OutputTokens)
			fmt.Fprintf(out, "Latency:   %dms\n", c.LatencyMs)
			fmt.Fprintf(out, "Success:   %v\n", c.Success)
			if c.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:     %s\n", c.ErrorMessage)
			}

			for _, part := range []struct{ title, body string }{
				{"REQUEST", c.RequestBody},
				{"RESPONSE", c.ResponseBody},
			} {
				fmt.Fprintln(out)
				fmt.Fprintln(out, sep)
				fmt.Fprintln(out, part.title)
				fmt.Fprintln(out, sep)
				if part.body != "" {
					fmt.Fprintln(out, part.body)
				} else {
					fmt.Fprintln(out, "(not captured)")
				}
			}
			return nil
		},
	}
}

func newLLMStatsCmd() *cobra.Command {
	var since time.Duration
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated token usage and estimated cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(cmd, sessionOpts{})
			if err != nil {
				return err
			}
			defer s.Close()

			var opts store.QueryOpts
			if since > 0 {
				opts.From = time.Now().Add(-since)
			}

			byPurpose, err := s.store.UsageByPurpose(ctx, opts)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No LLM usage recorded yet.")
				return nil
			}

			rule := strings.Repeat("─", 86)
			fmt.Fprintln(out, "Usage by Purpose")
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%-22s  %6s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
			fmt.Fprintln(out, rule)

			var calls, failures, in, outTok int
			for _, u := range byPurpose {
				fmt.Fprintf(out, "%-22s  %6d  %6d  %10d  %10d  %10d  %8d\n",
					truncate(u.Key, 22), u.Calls, u.Failures, u.InputTokens, u.OutputTokens,
					u.InputTokens+u.OutputTokens, avgLatency(u).Milliseconds())
				calls += u.Calls
				failures += u.Failures
				in += u.InputTokens
				outTok += u.OutputTokens
			}
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%-22s  %6d  %6d  %10d  %10d  %10d\n",
				"TOTAL", calls, failures, in, outTok, in+outTok)

			byModel, err := s.store.UsageByModel(ctx, opts)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Estimated Cost (USD)")
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n",
				"Model", "Calls", "Input", "Output", "Cost")
			fmt.Fprintln(out, rule)

			var total float64
			var unknown []string
			for _, u := range byModel {
				cost := llm.LookupCost(u.Key)
				if cost == nil {
					unknown = append(unknown, u.Key)
					fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
						truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
					continue
				}
				c := cost.Cost(u.InputTokens, u.OutputTokens)
				total += c
				fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
			}

			fmt.Fprintln(out, rule)
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
			if len(unknown) > 0 {
				fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 0, "Only count calls made within this long, e.g. 168h")
	return cmd
}

func avgLatency(u store.UsageSummary) time.Duration {
	if u.Calls == 0 {
		return 0
	}
	return u.TotalLatency / time.Duration(u.Calls)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
