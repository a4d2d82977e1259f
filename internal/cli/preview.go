package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/cellmark/internal/cache"
	"github.com/mithrel/cellmark/internal/clip"
	"github.com/mithrel/cellmark/internal/present/tui"
	"github.com/mithrel/cellmark/internal/preview"
	"github.com/mithrel/cellmark/internal/render"
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse a table and preview the selected cell as markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			s := preview.NewSession(app.Base, cache.New(),
				preview.WithDarkMode(app.Cfg.GetBool("preview.dark_mode")))
			err := tui.Run(cmd.Context(), s, app.Bus, tui.Options{
				Render: render.Options{
					DarkStyle:  app.Cfg.GetString("preview.style_dark"),
					LightStyle: app.Cfg.GetString("preview.style_light"),
					Width:      app.Cfg.GetInt("preview.word_wrap"),
				},
				WidthRatio: app.Cfg.GetFloat64("preview.width_ratio"),
				Copier:     clip.New(os.Stdout),
			})
			if err != nil {
				return err
			}
			if snap := s.Snapshot(); snap.State == preview.StateFailed {
				return snap.Err
			}
			return nil
		},
	}
	addTableFlag(cmd)
	cmd.Flags().Bool("dark", false, "start with the dark theme")
	return cmd
}
