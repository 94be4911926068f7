package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"

	// Registers the compiled-in example workflows so the wizard has classes
	// to offer even before any user-defined workflow package is imported.
	_ "github.com/AbdelazizMoustafa10m/wfm/internal/builtin"
)

// ErrWizardCancelled is returned when the user cancels the interactive
// wizard (Ctrl+C or declining the confirmation page).
var ErrWizardCancelled = errors.New("wizard cancelled by user")

// wizardWidth is the fixed form width used by the workflows wizard.
const wizardWidth = 80

var workflowsInitCatalog string

var workflowsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively add an entry to workflows.yml",
	Long: `init walks through the compiled-in workflow classes and appends a
new entry to workflows.yml, prompting for its name, description, visibility,
and required parameters.`,
	Args: cobra.NoArgs,
	RunE: runWorkflowsInit,
}

func init() {
	workflowsInitCmd.Flags().StringVar(&workflowsInitCatalog, "catalog", registry.DefaultFileName, "Path to workflows.yml to append to")
	workflowsCmd.AddCommand(workflowsInitCmd)
}

// catalogDocument mirrors the workflows.yml shape used by internal/registry,
// kept local so this wizard does not need registry's unexported parse types.
type catalogDocument struct {
	WorkflowsDir string                 `yaml:"workflows_dir,omitempty"`
	Workflows    []catalogWorkflowEntry `yaml:"workflows"`
}

type catalogWorkflowEntry struct {
	Name        string                          `yaml:"name"`
	Class       string                          `yaml:"class"`
	Description string                          `yaml:"description,omitempty"`
	Public      bool                            `yaml:"public"`
	Parameters  map[string]catalogParameterEntry `yaml:"parameters,omitempty"`
}

type catalogParameterEntry struct {
	Type        string `yaml:"type,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
	Description string `yaml:"description,omitempty"`
}

func runWorkflowsInit(cmd *cobra.Command, args []string) error {
	classes := registry.RegisteredClasses()
	if len(classes) == 0 {
		return fmt.Errorf("no compiled-in workflow classes registered")
	}

	var (
		class       = classes[0]
		name        string
		description string
		public      = true
		paramNames  string
	)

	if err := runWorkflowClassPage(classes, &class); err != nil {
		return mapWizardErr(err)
	}
	if err := runWorkflowDetailsPage(&name, &description, &public, &paramNames); err != nil {
		return mapWizardErr(err)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("workflow name must not be empty")
	}

	entry := catalogWorkflowEntry{
		Name:        name,
		Class:       class,
		Description: description,
		Public:      public,
	}
	if params := splitAndTrim(paramNames); len(params) > 0 {
		entry.Parameters = make(map[string]catalogParameterEntry, len(params))
		for _, p := range params {
			entry.Parameters[p] = catalogParameterEntry{Type: "string", Required: true}
		}
	}

	confirmed := false
	summary := summarizeEntry(entry)
	if err := runWorkflowConfirmPage(summary, &confirmed); err != nil {
		return mapWizardErr(err)
	}
	if !confirmed {
		return ErrWizardCancelled
	}

	doc, err := loadOrEmptyCatalog(workflowsInitCatalog)
	if err != nil {
		return err
	}
	doc.Workflows = append(doc.Workflows, entry)

	return writeCatalogDocument(workflowsInitCatalog, doc)
}

func runWorkflowClassPage(classes []string, class *string) error {
	options := make([]huh.Option[string], len(classes))
	for i, c := range classes {
		options[i] = huh.NewOption(c, c)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which compiled-in workflow class?").
				Description("The factory registered under this class builds the step table.").
				Options(options...).
				Value(class),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(wizardWidth).
		Run()
}

func runWorkflowDetailsPage(name, description *string, public *bool, paramNames *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workflow name:").
				Description("The unique catalog key used by /workflows/start/{name}.").
				Value(name).
				Validate(validateWorkflowName),
			huh.NewInput().
				Title("Description:").
				Value(description),
			huh.NewConfirm().
				Title("Public?").
				Description("Public workflows appear in GET /workflows/available.").
				Value(public),
			huh.NewInput().
				Title("Required parameters (comma-separated, optional):").
				Value(paramNames),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(wizardWidth).
		Run()
}

func runWorkflowConfirmPage(summary string, confirmed *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add this workflow to the catalog?").
				Description(summary).
				Affirmative("Add").
				Negative("Cancel").
				Value(confirmed),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(wizardWidth).
		Run()
}

func summarizeEntry(e catalogWorkflowEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:        %s\n", e.Name))
	sb.WriteString(fmt.Sprintf("Class:       %s\n", e.Class))
	if e.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", e.Description))
	}
	sb.WriteString(fmt.Sprintf("Public:      %v\n", e.Public))
	if len(e.Parameters) > 0 {
		names := make([]string, 0, len(e.Parameters))
		for p := range e.Parameters {
			names = append(names, p)
		}
		sb.WriteString(fmt.Sprintf("Parameters:  %s\n", strings.Join(names, ", ")))
	}
	return sb.String()
}

func loadOrEmptyCatalog(path string) (*catalogDocument, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &catalogDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

func writeCatalogDocument(path string, doc *catalogDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func mapWizardErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrWizardCancelled
	}
	return fmt.Errorf("wizard: %w", err)
}

func validateWorkflowName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func splitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
