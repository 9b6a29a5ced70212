package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/infinicanvas/pkg/config"
	"github.com/matzehuels/infinicanvas/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// resolvedConfigPath is --config when given, else the default location.
func (c *CLI) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), configTable(c.Config))
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		// init must work even when the existing file is broken.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				printWarning(cmd.OutOrStdout(), "%s already exists", path)
				printNextStep(cmd.OutOrStdout(), "Overwrite it with", "infinicanvas config init --force")
				return nil
			}
			if err := writeDefaultConfig(path); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote default configuration")
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// writeDefaultConfig encodes the built-in configuration as TOML at path.
func writeDefaultConfig(path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(config.Default()); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// configTable renders the configuration as a section/key/value table.
func configTable(cfg *config.Config) string {
	rows := [][]string{
		{"canvas", "size", fmt.Sprintf("%dx%d", cfg.Canvas.Width, cfg.Canvas.Height)},
		{"", "background", cfg.Canvas.Background},
		{"", "formats", strings.Join(cfg.Canvas.Formats, ", ")},
		{"view", "scale", fmt.Sprint(cfg.View.Scale)},
		{"", "offset", fmt.Sprintf("%g, %g", cfg.View.OffsetX, cfg.View.OffsetY)},
		{"", "ratio", fmt.Sprint(cfg.View.Ratio)},
		{"", "anchor", cfg.View.Anchor},
		{"grid", "step", fmt.Sprint(cfg.Grid.Step)},
		{"", "color", cfg.Grid.Color},
		{"ruler", "color", cfg.Ruler.Color},
		{"", "font size", fmt.Sprint(cfg.Ruler.FontSize)},
		{"", "steps", fmt.Sprintf("base %g, min spacing %g", cfg.Ruler.BaseStep, cfg.Ruler.MinSpacing)},
		{"scene", "avatar", orNone(cfg.Scene.Avatar)},
		{"", "overlay", fmt.Sprint(cfg.Scene.Overlay)},
		{"cache", "backend", cfg.Cache.Backend},
		{"", "dir", orNone(cfg.Cache.Dir)},
		{"server", "addr", cfg.Server.Addr},
		{"", "session ttl", cfg.Server.SessionTTL.String()},
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Section", "Key", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleTitle
			case col == 2:
				return StyleValue
			}
			return StyleDim
		}).
		Render()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
