package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/typewriter/internal/typing"
)

// profileView is the listing form of a personality, with durations in milliseconds.
type profileView struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	BaseSpeedMS            int64   `json:"base_speed_ms"`
	SpeedVariationMS       int64   `json:"speed_variation_ms"`
	PunctuationPauseMS     int64   `json:"punctuation_pause_ms"`
	ThinkingPauseMinMS     int64   `json:"thinking_pause_min_ms"`
	ThinkingPauseMaxMS     int64   `json:"thinking_pause_max_ms"`
	ThinkingPauseFrequency float64 `json:"thinking_pause_frequency"`
	BackspaceFrequency     float64 `json:"backspace_frequency"`
	BackspaceLength        int     `json:"backspace_length"`
	CorrectionPauseMS      int64   `json:"correction_pause_ms"`
	TypoFrequency          float64 `json:"typo_frequency"`
	TypoVisibilityMS       int64   `json:"typo_visibility_ms"`
	Default                bool    `json:"default,omitempty"`
}

func newProfileView(p typing.Profile) profileView {
	ms := func(d time.Duration) int64 { return d.Milliseconds() }
	return profileView{
		ID:                     string(p.ID),
		Name:                   p.Name,
		Description:            p.Description,
		BaseSpeedMS:            ms(p.BaseSpeed),
		SpeedVariationMS:       ms(p.SpeedVariation),
		PunctuationPauseMS:     ms(p.PunctuationPause),
		ThinkingPauseMinMS:     ms(p.ThinkingPauseMin),
		ThinkingPauseMaxMS:     ms(p.ThinkingPauseMax),
		ThinkingPauseFrequency: p.ThinkingPauseFrequency,
		BackspaceFrequency:     p.BackspaceFrequency,
		BackspaceLength:        p.BackspaceLength,
		CorrectionPauseMS:      ms(p.CorrectionPause),
		TypoFrequency:          p.TypoFrequency,
		TypoVisibilityMS:       ms(p.TypoVisibilityTime),
		Default:                p.ID == typing.DefaultProfile,
	}
}

func newProfilesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Lists the available typing personalities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]profileView, 0, len(typing.Profiles()))
			for _, p := range typing.Profiles() {
				views = append(views, newProfileView(p))
			}

			switch format {
			case "text":
				return writeProfileTable(cmd.OutOrStdout(), views)
			case "json":
				data, err := json.MarshalIndent(views, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode profiles: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			default:
				return fmt.Errorf("unsupported format %q: use text or json", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func writeProfileTable(w io.Writer, views []profileView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPEED\tTYPOS\tDESCRIPTION")
	for _, v := range views {
		id := v.ID
		if v.Default {
			id += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%dms\t%.0f%%\t%s\n", id, v.Name, v.BaseSpeedMS, v.BackspaceFrequency*v.TypoFrequency*100, v.Description)
	}
	return tw.Flush()
}
