package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/stageview"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets with SLA, badge and next best action",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore()
		if err != nil {
			return err
		}
		if statusFlag != "" {
			st.SetFilter("status", statusFlag)
		}
		if sortFlag != "" {
			st.SetFilter("sortBy", sortFlag)
		}

		f := st.Filters()
		tickets := insight.Filter(st.Tickets(), f.Status)
		insight.Sort(tickets, f.SortBy)

		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(insight.Summarize(st.Tickets())))
		fmt.Fprintln(cmd.OutOrStdout(), renderList(tickets))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <ticket-id>",
	Short: "Show a ticket's issues, recommendations and stages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore()
		if err != nil {
			return err
		}
		t, ok := st.Ticket(args[0])
		if !ok {
			return fmt.Errorf("ticket %s not found", args[0])
		}
		b, _ := st.Board(t.ID)
		fmt.Fprintln(cmd.OutOrStdout(), renderDetail(t, b))
		return nil
	},
}

var stageCmd = &cobra.Command{
	Use:   "stage <ticket-id> <anchor>",
	Short: "Render one validation stage (index, stage id or alias such as sor)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore()
		if err != nil {
			return err
		}
		t, ok := st.Ticket(args[0])
		if !ok {
			return fmt.Errorf("ticket %s not found", args[0])
		}
		idx, err := pipeline.Lookup(args[1])
		if err != nil {
			return fmt.Errorf("stage %q: %w", args[1], err)
		}
		draft, _ := st.Draft(t.ID)
		v, err := stageview.Render(t, idx, stageview.Focus{}, draft, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStage(v))
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show board-level recommendation cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderCards(insight.Recommendations(st.Tickets())))
		return nil
	},
}
