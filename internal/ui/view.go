package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"filefusion/internal/domain"
	"filefusion/internal/palette"
	"filefusion/internal/services"
	"filefusion/internal/state"
)

const timeLayout = "2006-01-02 15:04:05"

type uiStyles struct {
	headerStyle   lipgloss.Style
	mutedStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	warnStyle     lipgloss.Style
	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	tabStyle      lipgloss.Style
	activeTab     lipgloss.Style
	panelBorder   lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if model.state.Prefs.Theme == domain.ThemeLight {
		return uiStyles{
			headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
			tabStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1),
			activeTab:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25")).Bold(true).Padding(0, 1),
			panelBorder:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle:   lipgloss.NewStyle().Bold(true),
		mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		tabStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		activeTab:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("69")).Bold(true).Padding(0, 1),
		panelBorder:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}

	header := renderHeader(model, styles)
	body := renderBody(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{header, body, footer}, "\n")
}

func renderHeader(model Model, styles uiStyles) string {
	tabs := make([]string, 0, len(state.Tabs))
	for _, tab := range state.Tabs {
		if tab == model.state.Tab {
			tabs = append(tabs, styles.activeTab.Render(tab.String()))
			continue
		}
		tabs = append(tabs, styles.tabStyle.Render(tab.String()))
	}
	left := styles.headerStyle.Render("FileFusion") + "  " + strings.Join(tabs, "")
	status := "IDLE"
	if model.inspecting {
		status = model.spinner.View() + " INSPECTING"
	}
	return padLine(left, styles.statusStyle.Render(status), model.width)
}

func renderBody(model Model, styles uiStyles) string {
	bodyHeight := model.listHeight()
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	leftWidth, rightWidth, showRight := splitPanels(model.width)

	var left string
	switch model.state.Tab {
	case state.TabCustomize:
		left = renderCustomizePanel(model, styles, bodyHeight, leftWidth)
	case state.TabColors:
		left = renderColorsPanel(model, styles, bodyHeight, leftWidth)
	case state.TabStats:
		left = renderStatsPanel(model, styles, bodyHeight, leftWidth)
	case state.TabFavorites:
		left = renderFavoritesPanel(model, styles, bodyHeight, leftWidth)
	default:
		left = renderBrowsePanel(model, styles, bodyHeight, leftWidth)
	}
	if !showRight {
		return left
	}
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("│")
	right := renderPreviewPanel(model, styles, rightWidth, bodyHeight)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

func renderFooter(model Model, styles uiStyles) string {
	statusLine := trimStatus(model.status, model.width)
	statusStyle := styles.mutedStyle
	lower := strings.ToLower(model.status)
	if strings.Contains(lower, "error") || strings.Contains(lower, "warning") {
		statusStyle = styles.warnStyle
	}
	statusLine = statusStyle.Render(statusLine)
	if model.mode != inputNone {
		statusLine = model.input.View()
	}

	target := "Folder: none"
	if model.state.Target != "" {
		target = "Folder: " + model.state.Target
		if model.state.IsFavorite(model.state.Target) {
			target += " ★"
		}
	}
	keys := tabKeys(model.state.Tab) + "  tab switch  a apply  x reset  f fav  t theme  y copy  ? help  q quit"
	if model.mode != inputNone {
		keys = "enter confirm  esc cancel"
	}
	footerLine := padLine(target, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footerLine)}, "\n")
}

func tabKeys(tab state.Tab) string {
	switch tab {
	case state.TabCustomize:
		return "←/→ icon  e effect  n note  m name"
	case state.TabColors:
		return "←/→ preset  # hex"
	case state.TabStats:
		return "r refresh"
	case state.TabFavorites:
		return "enter open  d remove"
	default:
		return "↑/↓ move  → enter  ← up  s select  g goto  h hidden"
	}
}

func renderBrowsePanel(model Model, styles uiStyles, height, width int) string {
	contentWidth := maxInt(width-2, 10)
	lines := []string{styles.headerStyle.Render(breadcrumbs(model.state.Path))}
	entries := model.state.Listing.Entries
	if len(entries) == 0 {
		message := "Empty folder"
		if model.state.Path == "" {
			message = "No folder open - press g to go to a path"
		}
		lines = append(lines, styles.mutedStyle.Render(message))
		return panel(styles, contentWidth, height, lines)
	}

	listHeight := maxInt(height-1, 1)
	start := clamp(model.viewTop, 0, maxInt(len(entries)-1, 0))
	end := start + listHeight
	if end > len(entries) {
		end = len(entries)
	}
	sizeWidth := 11
	for index := start; index < end; index++ {
		node := entries[index]
		name := node.Name
		size := ""
		icon := "📄"
		if node.Type == domain.NodeDir {
			name += string(filepath.Separator)
			icon = "📁"
			if node.Path == model.state.Target {
				icon = model.state.Custom.Icon
			}
		} else {
			size = services.FormatSize(node.Size)
		}
		line := fmt.Sprintf("%*s %s %s", sizeWidth, size, icon, name)
		switch {
		case index == model.state.Cursor:
			line = styles.cursorStyle.Render(line)
		case node.Hidden:
			line = styles.mutedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return panel(styles, contentWidth, height, lines)
}

func renderCustomizePanel(model Model, styles uiStyles, height, width int) string {
	contentWidth := maxInt(width-2, 10)
	custom := model.state.Custom
	gallery := make([]string, 0, len(domain.Icons))
	for index, icon := range domain.Icons {
		if index == model.state.IconIndex {
			gallery = append(gallery, styles.selectedStyle.Render("["+icon+"]"))
			continue
		}
		gallery = append(gallery, " "+icon+" ")
	}
	effects := make([]string, 0, len(domain.Effects))
	for _, effect := range domain.Effects {
		if effect == custom.Effect {
			effects = append(effects, styles.selectedStyle.Render(string(effect)))
			continue
		}
		effects = append(effects, styles.mutedStyle.Render(string(effect)))
	}
	lines := []string{
		styles.headerStyle.Render("Folder"),
		valueOr(model.state.Target, "none selected"),
		"",
		styles.headerStyle.Render("Name"),
		valueOr(custom.Name, "-"),
		"",
		styles.headerStyle.Render("Icon"),
		wrapCells(gallery, 8),
		"",
		styles.headerStyle.Render("Effect"),
		strings.Join(effects, "  "),
		"",
		styles.headerStyle.Render("Note"),
		custom.MarkerNote(),
		"",
		styles.mutedStyle.Render(fmt.Sprintf("Icon size: %s", model.state.Prefs.IconSize)),
	}
	return panel(styles, contentWidth, height, lines)
}

func renderColorsPanel(model Model, styles uiStyles, height, width int) string {
	contentWidth := maxInt(width-2, 10)
	lines := []string{styles.headerStyle.Render("Presets")}
	for index, preset := range palette.Presets {
		swatchColor := preset.Hex
		marker := "  "
		if index == model.state.PresetIndex && preset.Hex == model.state.Custom.Color {
			swatchColor = model.state.HoverColor()
			marker = "▸ "
		}
		line := fmt.Sprintf("%s%s %-12s %s", marker, swatch(swatchColor, 4), preset.Name, preset.Hex)
		if marker != "  " {
			line = styles.selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	current := model.state.Custom.Color
	lines = append(lines, "", styles.headerStyle.Render("Current"), fmt.Sprintf("%s %s", swatch(current, 8), current))
	if rgb, err := palette.HexToRGB(current); err == nil {
		lines = append(lines, fmt.Sprintf("RGB(%d, %d, %d)", rgb.R, rgb.G, rgb.B))
	}
	lines = append(lines, fmt.Sprintf("Hover %s %s", swatch(model.state.HoverColor(), 4), model.state.HoverColor()))
	return panel(styles, contentWidth, height, lines)
}

func renderStatsPanel(model Model, styles uiStyles, height, width int) string {
	contentWidth := maxInt(width-2, 10)
	lines := []string{styles.headerStyle.Render("Folder Statistics")}
	stats := model.state.Stats
	switch {
	case model.state.Target == "":
		lines = append(lines, styles.mutedStyle.Render("No folder selected"))
		return panel(styles, contentWidth, height, lines)
	case stats == nil && model.inspecting:
		lines = append(lines, model.spinner.View()+" Inspecting "+model.state.Target)
		return panel(styles, contentWidth, height, lines)
	case stats == nil:
		lines = append(lines, styles.mutedStyle.Render("No statistics - press r"))
		return panel(styles, contentWidth, height, lines)
	}

	topType := "-"
	if stats.TopExtension != "" {
		topType = fmt.Sprintf("%s (%s)", stats.TopExtension, services.FormatSize(stats.TopExtBytes))
	}
	status := "Not Applied"
	if model.state.MarkerApplied {
		status = "Applied"
	}
	lines = append(lines,
		stats.Path,
		"",
		fmt.Sprintf("Total Folders : %d", stats.FolderCount),
		fmt.Sprintf("Total Files   : %d", stats.FileCount),
		fmt.Sprintf("Total Size    : %s", services.FormatSize(stats.TotalSizeBytes)),
		fmt.Sprintf("Created       : %s", formatTime(stats.CreatedAt)),
		fmt.Sprintf("Modified      : %s", formatTime(stats.ModifiedAt)),
		"",
		styles.headerStyle.Render("Analysis"),
		fmt.Sprintf("Avg files/folder : %.1f", stats.AverageFilesPerFolder()),
		fmt.Sprintf("Largest file type: %s", topType),
		fmt.Sprintf("Customization    : %s", status),
	)
	if stats.Skipped > 0 {
		lines = append(lines, styles.warnStyle.Render(fmt.Sprintf("Skipped entries  : %d", stats.Skipped)))
	}
	return panel(styles, contentWidth, height, lines)
}

func renderFavoritesPanel(model Model, styles uiStyles, height, width int) string {
	contentWidth := maxInt(width-2, 10)
	lines := []string{styles.headerStyle.Render("Favorites & Recent")}
	bookmarks := model.state.Bookmarks()
	if len(bookmarks) == 0 {
		lines = append(lines, styles.mutedStyle.Render("Nothing yet - select a folder, f to favorite"))
		return panel(styles, contentWidth, height, lines)
	}
	for index, bookmark := range bookmarks {
		icon := "🕘"
		if bookmark.Favorite {
			icon = "★ "
		}
		line := fmt.Sprintf("%s %s", icon, bookmark.Path)
		if index == model.state.BookmarkCursor {
			line = styles.cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return panel(styles, contentWidth, height, lines)
}

// renderPreviewPanel approximates the chosen look in the terminal. The
// effect only changes how the name is drawn here.
func renderPreviewPanel(model Model, styles uiStyles, width, height int) string {
	contentWidth := maxInt(width-2, 10)
	custom := model.state.Custom
	name := valueOr(custom.Name, "Folder")
	lines := []string{
		styles.headerStyle.Render("Preview"),
		"",
		swatch(custom.Color, 6) + " " + custom.Icon,
		effectStyle(custom.Effect, custom.Color, model.state.HoverColor()).Render(name),
		styles.mutedStyle.Render(custom.MarkerNote()),
	}
	if model.state.Target != "" {
		status := "not applied"
		if model.state.MarkerApplied {
			status = "applied"
		}
		lines = append(lines, "", fmt.Sprintf("Marker: %s", status))
	}
	return panel(styles, contentWidth, height, lines)
}

func effectStyle(effect domain.Effect, color, hover string) lipgloss.Style {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	switch effect {
	case domain.EffectGlow:
		return base.Bold(true).Foreground(lipgloss.Color(palette.AdjustBrightness(color, 40)))
	case domain.EffectShadow:
		return base.Background(lipgloss.Color(palette.AdjustBrightness(color, -80)))
	case domain.EffectGradient:
		return base.Underline(true).Background(lipgloss.Color(hover))
	case domain.Effect3D:
		return base.Bold(true).Italic(true).Border(lipgloss.ThickBorder(), false, true, true, false)
	default:
		return base
	}
}

func renderHelpView(model Model, styles uiStyles) string {
	bindings := []key.Binding{
		model.keys.Up,
		model.keys.Down,
		model.keys.Enter,
		model.keys.Right,
		model.keys.Back,
		model.keys.Left,
		model.keys.NextTab,
		model.keys.PrevTab,
		model.keys.Select,
		model.keys.Goto,
		model.keys.Refresh,
		model.keys.Hidden,
		model.keys.Apply,
		model.keys.Reset,
		model.keys.Icon,
		model.keys.Effect,
		model.keys.Note,
		model.keys.Rename,
		model.keys.Hex,
		model.keys.Favorite,
		model.keys.Delete,
		model.keys.Theme,
		model.keys.Copy,
		model.keys.Cancel,
		model.keys.Help,
		model.keys.Quit,
	}

	lines := []string{styles.headerStyle.Render("FileFusion Help"), ""}
	lines = append(lines, styles.headerStyle.Render("Browse"))
	lines = append(lines, "↑/↓ move cursor", "→ enter folder", "← go to parent", "s select folder for customization")
	lines = append(lines, "", styles.headerStyle.Render("Customize"))
	lines = append(lines, "pick icon, effect and note, then a to apply", "x removes the marker file again")
	lines = append(lines, "", styles.headerStyle.Render("Keys"))
	for _, binding := range bindings {
		keysLabel := strings.Join(binding.Keys(), ", ")
		lines = append(lines, fmt.Sprintf("%-18s %s", keysLabel, binding.Help().Desc))
	}
	lines = append(lines, "", "Press ? to close help")
	content := strings.Join(lines, "\n")
	width := model.width
	if width <= 0 {
		width = 80
	}
	return styles.panelBorder.Width(maxInt(width-2, 10)).Render(content)
}

func panel(styles uiStyles, width, height int, lines []string) string {
	content := strings.Join(lines, "\n")
	content = lipgloss.NewStyle().Width(width).Height(height).Render(content)
	return styles.panelBorder.Width(width).Render(content)
}

func swatch(hex string, width int) string {
	if !palette.IsValidHex(hex) {
		return strings.Repeat("?", width)
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(strings.Repeat(" ", width))
}

func wrapCells(cells []string, perRow int) string {
	rows := make([]string, 0, len(cells)/perRow+1)
	for start := 0; start < len(cells); start += perRow {
		end := start + perRow
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, strings.Join(cells[start:end], ""))
	}
	return strings.Join(rows, "\n")
}

func breadcrumbs(path string) string {
	if path == "" {
		return "-"
	}
	path = filepath.Clean(path)
	if path == "." {
		return "."
	}
	parts := strings.Split(path, string(filepath.Separator))
	if len(parts) == 0 {
		return path
	}
	if parts[0] == "" {
		parts[0] = string(filepath.Separator)
	}
	return strings.Join(parts, " › ")
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func splitPanels(width int) (int, int, bool) {
	if width < 80 {
		return width, 0, false
	}
	left := int(float64(width) * 0.65)
	if left < 50 {
		left = 50
	}
	right := width - left - 1
	if right < 24 {
		return width, 0, false
	}
	return left, right, true
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format(timeLayout)
}

func trimStatus(message string, width int) string {
	if width <= 0 {
		return message
	}
	max := width - 4
	if max <= 0 || len(message) <= max {
		return message
	}
	return message[:max] + "..."
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
