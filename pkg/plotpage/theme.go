package plotpage

// Theme represents a color theme for visualizations.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background   string
	Surface      string
	SurfaceHover string
	Border       string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent and semantic colors.
	Accent  string
	Success string
	Warning string
	Error   string
	Info    string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// ECharts theme name.
	EChartsTheme string
}

// ChartPalette returns a consistent color palette for charts.
type ChartPalette struct {
	Primary  []string // Main series colors.
	Semantic struct {
		Good    string
		Warning string
		Bad     string
	}
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return lightTheme
	}
}

// GetChartPalette returns the chart color palette for a given theme.
func GetChartPalette(theme Theme) ChartPalette {
	switch theme {
	case ThemeDark:
		return darkChartPalette
	case ThemeLight:
		return lightChartPalette
	default:
		return lightChartPalette
	}
}

var lightTheme = ThemeConfig{
	// Base - cool neutrals.
	Background:   "#f8fafc", // slate-50.
	Surface:      "#ffffff",
	SurfaceHover: "#f1f5f9", // slate-100.
	Border:       "#e2e8f0", // slate-200.

	// Text.
	TextPrimary:   "#0f172a", // slate-900.
	TextSecondary: "#334155", // slate-700.
	TextMuted:     "#64748b", // slate-500.

	// Accent and semantic.
	Accent:  "#2563eb", // blue-600.
	Success: "#16a34a", // green-600.
	Warning: "#ca8a04", // yellow-600.
	Error:   "#dc2626", // red-600.
	Info:    "#0284c7", // sky-600.

	// Chart.
	ChartBackground: "transparent",
	ChartGrid:       "#e2e8f0", // slate-200.
	ChartAxis:       "#94a3b8", // slate-400.
	ChartText:       "#334155", // slate-700.
	ChartTextMuted:  "#64748b", // slate-500.

	EChartsTheme: "",
}

var darkTheme = ThemeConfig{
	// Base - dark cool neutrals.
	Background:   "#020617", // slate-950.
	Surface:      "#0f172a", // slate-900.
	SurfaceHover: "#1e293b", // slate-800.
	Border:       "#334155", // slate-700.

	// Text.
	TextPrimary:   "#f8fafc", // slate-50.
	TextSecondary: "#cbd5e1", // slate-300.
	TextMuted:     "#94a3b8", // slate-400.

	// Accent and semantic.
	Accent:  "#3b82f6", // blue-500.
	Success: "#22c55e", // green-500.
	Warning: "#eab308", // yellow-500.
	Error:   "#ef4444", // red-500.
	Info:    "#38bdf8", // sky-400.

	// Chart.
	ChartBackground: "transparent",
	ChartGrid:       "#334155", // slate-700.
	ChartAxis:       "#475569", // slate-600.
	ChartText:       "#cbd5e1", // slate-300.
	ChartTextMuted:  "#94a3b8", // slate-400.

	EChartsTheme: "",
}

var lightChartPalette = ChartPalette{
	Primary: []string{
		"#2196F3", // blue.
		"#4CAF50", // green.
		"#F44336", // red.
		"#607D8B", // blue grey.
		"#FF9800", // orange.
		"#9C27B0", // purple.
		"#00BCD4", // cyan.
		"#8BC34A", // light green.
		"#FFC107", // amber.
		"#3F51B5", // indigo.
	},
	Semantic: struct {
		Good    string
		Warning string
		Bad     string
	}{
		Good:    "#16a34a", // green-600.
		Warning: "#ca8a04", // yellow-600.
		Bad:     "#dc2626", // red-600.
	},
}

var darkChartPalette = ChartPalette{
	Primary: []string{
		"#64B5F6", // blue 300.
		"#81C784", // green 300.
		"#E57373", // red 300.
		"#90A4AE", // blue grey 300.
		"#FFB74D", // orange 300.
		"#BA68C8", // purple 300.
		"#4DD0E1", // cyan 300.
		"#AED581", // light green 300.
		"#FFD54F", // amber 300.
		"#7986CB", // indigo 300.
	},
	Semantic: struct {
		Good    string
		Warning string
		Bad     string
	}{
		Good:    "#22c55e", // green-500.
		Warning: "#eab308", // yellow-500.
		Bad:     "#ef4444", // red-500.
	},
}
