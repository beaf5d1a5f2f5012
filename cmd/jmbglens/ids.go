package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dshills/jmbglens/internal/clipboard"
	"github.com/dshills/jmbglens/internal/jmbg"
	"github.com/dshills/jmbglens/internal/message"
)

type styles struct {
	valid   lipgloss.Style
	invalid lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
}

// newStyles renders for w, so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		valid:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		invalid: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("241")).Width(12),
		muted:   r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [ids...]",
		Short: "Validate identifiers",
		Long:  "Validate each identifier given as an argument, or one per line on stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				var err error
				if ids, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)
			failed := false
			for _, id := range ids {
				res := jmbg.Validate(id)
				if res.Valid {
					fmt.Fprintln(out, st.valid.Render("✓"), id+" Valid!")
					continue
				}
				failed = true
				fmt.Fprintln(out, st.invalid.Render("✗"), id+" Invalid! "+res.Reason.Message())
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

type decodeOptions struct {
	pretty bool
	text   bool
	copy   bool
}

func newDecodeCmd() *cobra.Command {
	opts := &decodeOptions{}
	cmd := &cobra.Command{
		Use:   "decode <id>",
		Short: "Decode an identifier",
		Long: `Decode prints the panel message for an identifier as JSON: the text,
its validity, the failure reason and the decoded fields.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := message.Build(args[0])
			out := cmd.OutOrStdout()

			var err error
			switch {
			case opts.text:
				writeText(out, msg)
			case opts.pretty:
				var data []byte
				if data, err = msg.Pretty(); err == nil {
					_, err = fmt.Fprintln(out, string(data))
				}
			default:
				var data []byte
				if data, err = msg.MarshalJSON(); err == nil {
					_, err = fmt.Fprintln(out, string(data))
				}
			}
			if err != nil {
				return err
			}

			if opts.copy {
				body, err := msg.Decoded.Pretty()
				if err != nil {
					return err
				}
				if err := clipboard.NewTerminal(cmd.ErrOrStderr(), false).WriteText(body); err != nil {
					return err
				}
			}
			if !msg.Valid {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&opts.text, "text", false, "print a human-readable summary instead of JSON")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the decoded fields to the clipboard (OSC 52)")
	cmd.MarkFlagsMutuallyExclusive("pretty", "text")
	return cmd
}

func writeText(out io.Writer, msg message.Message) {
	st := newStyles(out)
	text := ""
	if msg.Text != nil {
		text = *msg.Text
	}
	if !msg.Valid {
		fmt.Fprintln(out, st.invalid.Render("✗"), text, st.muted.Render(msg.ReasonText()))
		return
	}
	fmt.Fprintln(out, st.valid.Render("✓"), text)

	d := msg.Decoded
	row := func(label, value string) {
		fmt.Fprintln(out, st.label.Render(label)+value)
	}
	row("Birth date", fmt.Sprintf("%d.%d.%d.", *d.Day, *d.Month, *d.Year))
	row("Place", orDash(d.Place))
	row("Region", orDash(d.Region))
	row("Gender", orDash(d.Gender))
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func newGenerateCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random valid identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			if seed == 0 {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewPCG(seed, seed))
			out := cmd.OutOrStdout()
			for range count {
				fmt.Fprintln(out, jmbg.Generate(rng))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of identifiers")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output (0 picks one)")
	return cmd
}
