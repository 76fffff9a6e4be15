package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var (
	statsChart string
	statsTop   int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalogue statistics",
	Long: `Count artworks per project, technique and author.

With --chart the same counts are written as an HTML page of bar charts.

Examples:
  obras stats
  obras stats --top 10
  obras stats --chart resumen.html`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsChart, "chart", "", "Write an HTML bar chart to this file")
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "Rows shown per ranking")
}

func runStats(cmd *cobra.Command, args []string) error {
	resp, err := statsService.Execute(getContext())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Projects:"), resp.TotalProjects)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Artworks:"), resp.TotalArtworks)
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Stored photos:"), formatBytes(resp.ImageBytes))
	active := resp.Active
	if active == "" {
		active = "(none)"
	}
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Active project:"), active)
	w.Flush()
	fmt.Println()

	renderBars("Artworks per Project", resp.Projects, statsTop)
	renderBars("Top Techniques", resp.Techniques, statsTop)
	renderBars("Top Authors", resp.Authors, statsTop)

	if statsChart != "" {
		f, err := os.Create(statsChart)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer f.Close()

		if err := renderStatsChart(resp, f); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		fmt.Println(ui.FormatSuccess("Chart written to " + statsChart))
	}
	return nil
}

// renderBars displays a horizontal bar chart of the first limit counts
func renderBars(title string, counts []services.Count, limit int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleTitle.Render(title))

	limit = min(max(limit, 1), len(counts))
	maxCount := 0
	for _, c := range counts[:limit] {
		maxCount = max(maxCount, c.Count)
	}
	barWidth := 20

	for _, c := range counts[:limit] {
		length := 0
		if maxCount > 0 {
			length = int(math.Ceil(float64(c.Count) / float64(maxCount) * float64(barWidth)))
		}
		bar := strings.Repeat("█", length)

		fmt.Printf("%s %s %s\n",
			ui.StyleAccent.Render(fmt.Sprintf("%-*s", barWidth, bar)),
			ui.Truncate(c.Label, 30),
			ui.StyleMuted.Render(fmt.Sprintf("%d", c.Count)),
		)
	}
	fmt.Println()
}

// renderStatsChart writes one bar chart per ranking as a standalone HTML page
func renderStatsChart(resp *services.StatsResponse, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "Obras"
	page.AddCharts(
		countsBar("Obras por proyecto", resp.Projects),
		countsBar("Técnicas", resp.Techniques),
		countsBar("Autores", resp.Authors),
	)
	return page.Render(w)
}

func countsBar(title string, counts []services.Count) *charts.Bar {
	labels := make([]string, 0, len(counts))
	data := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Label)
		data = append(data, opts.BarData{Name: c.Label, Value: c.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("Obras", data)
	return bar
}
