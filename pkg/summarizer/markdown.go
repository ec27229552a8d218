package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Pipeline Summary"))

	// Run
	fmt.Fprintf(&sb, "## %s\n\n", t("Run"))
	f.tableHeader(&sb, t("Item"), t("Value"))
	f.row(&sb, t("Run ID"), orDash(s.Run.ID))
	if s.Run.Error == "" {
		f.row(&sb, t("Status"), t("Completed"))
	} else {
		f.row(&sb, t("Status"), fmt.Sprintf("%s: %s", t("Failed"), s.Run.Error))
	}
	f.row(&sb, t("Duration"), formatDuration(s.Run.Duration))
	sb.WriteString("\n")

	// Source and settings
	fmt.Fprintf(&sb, "## %s\n\n", t("Settings"))
	f.tableHeader(&sb, t("Item"), t("Value"))
	f.row(&sb, t("Source"), orDash(s.Source.Name))
	if s.Source.Width > 0 {
		f.row(&sb, t("Frame Size"), fmt.Sprintf("%dx%d", s.Source.Width, s.Source.Height))
	}
	f.row(&sb, t("Crop Size"), fmt.Sprintf("%dx%d", s.Settings.CropWidth, s.Settings.CropHeight))
	f.row(&sb, t("Model"), orDash(s.Settings.Model))
	if s.Settings.Preset != "" {
		f.row(&sb, t("Preset"), s.Settings.Preset)
	}
	if s.Settings.PollInterval > 0 {
		f.row(&sb, t("Poll Interval"), s.Settings.PollInterval.String())
	}
	sb.WriteString("\n")

	// Stages
	fmt.Fprintf(&sb, "## %s\n\n", t("Stages"))
	f.tableHeader(&sb, t("Item"), t("Value"))
	f.row(&sb, t("Frames Read"), fmt.Sprint(s.Capture.Read))
	f.row(&sb, t("Frames Produced"), fmt.Sprint(s.Capture.Produced))
	f.row(&sb, t("Frames Skipped"), fmt.Sprint(s.Capture.Skipped))
	f.row(&sb, t("Payload"), formatBytes(s.Capture.Bytes))
	f.row(&sb, t("Frames Transformed"), fmt.Sprint(s.Transform.Delivered))
	f.row(&sb, t("Delivery Retries"), fmt.Sprint(s.Transform.Retries))
	sb.WriteString("\n")

	// Buffers
	if len(s.Buffers) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Buffers"))
		f.tableHeader(&sb, t("Buffer"), t("Capacity"), t("Peak"), t("Enqueued"), t("Dequeued"))
		for _, b := range s.Buffers {
			f.row(&sb, b.Name, fmt.Sprint(b.Capacity), fmt.Sprint(b.Peak), fmt.Sprint(b.Enqueued), fmt.Sprint(b.Dequeued))
		}
		sb.WriteString("\n")
	}

	// Outputs
	if len(s.Outputs) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Outputs"))
		f.tableHeader(&sb, t("Output"), t("Frames"))
		for _, o := range s.Outputs {
			f.row(&sb, o.Name, fmt.Sprint(o.Frames))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n")
	generated := s.GeneratedAt.Format(time.RFC3339)
	if f.version != "" {
		fmt.Fprintf(&sb, "%s framepipe %s (%s)\n", t("Generated by"), f.version, generated)
	} else {
		fmt.Fprintf(&sb, "%s framepipe (%s)\n", t("Generated by"), generated)
	}

	return sb.String()
}

func (f *MarkdownFormatter) tableHeader(sb *strings.Builder, cols ...string) {
	f.row(sb, cols...)
	sb.WriteString("|")
	for range cols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) row(sb *strings.Builder, cells ...string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
