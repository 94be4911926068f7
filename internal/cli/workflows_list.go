package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/wfm/internal/httpapi"
)

var (
	workflowsServerAddr string
	workflowsAvailable  bool
)

// workflowsCmd is the parent "workflows" namespace command.
var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Query a running wfm server's workflow state",
	Long:  "List active workflows or the registered catalog from a running wfm serve instance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var workflowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflows known to a running server",
	Long: `list queries GET /workflows (or GET /workflows/available with
--available) on a running wfm server and renders the result as a table.`,
	Args: cobra.NoArgs,
	RunE: runWorkflowsList,
}

func init() {
	workflowsCmd.PersistentFlags().StringVar(&workflowsServerAddr, "server", "http://localhost:8080", "Base URL of the wfm server")
	workflowsListCmd.Flags().BoolVar(&workflowsAvailable, "available", false, "List the registered catalog instead of active workflows")
	workflowsCmd.AddCommand(workflowsListCmd)
	rootCmd.AddCommand(workflowsCmd)
}

func runWorkflowsList(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	if workflowsAvailable {
		var list httpapi.AvailableWorkflowList
		if err := getJSON(client, workflowsServerAddr+"/workflows/available", &list); err != nil {
			return err
		}
		printAvailableTable(cmd, list)
		return nil
	}

	var list httpapi.WorkflowList
	if err := getJSON(client, workflowsServerAddr+"/workflows", &list); err != nil {
		return err
	}
	printWorkflowTable(cmd, list)
	return nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true)
	tableColWidth    = 38
)

func printWorkflowTable(cmd *cobra.Command, list httpapi.WorkflowList) {
	out := cmd.OutOrStdout()
	if list.Total == 0 {
		fmt.Fprintln(out, "No workflows.")
		return
	}

	fmt.Fprintln(out, tableHeaderStyle.Render(padCell("WORKFLOW ID", tableColWidth)+"STATUS     CREATED"))
	for _, wf := range list.Workflows {
		fmt.Fprintf(out, "%s%-11s%s\n", padCell(wf.WorkflowID, tableColWidth), wf.Status, wf.CreatedAt.Format(time.RFC3339))
	}
}

func printAvailableTable(cmd *cobra.Command, list httpapi.AvailableWorkflowList) {
	out := cmd.OutOrStdout()
	if len(list.Workflows) == 0 {
		fmt.Fprintln(out, "No registered workflows.")
		return
	}

	fmt.Fprintln(out, tableHeaderStyle.Render(padCell("NAME", 24)+"PUBLIC  DESCRIPTION"))
	for _, wf := range list.Workflows {
		fmt.Fprintf(out, "%s%-8v%s\n", padCell(wf.Name, 24), wf.Public, wf.Description)
	}
}

func padCell(s string, width int) string {
	if len(s) >= width {
		return s[:width-1] + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
