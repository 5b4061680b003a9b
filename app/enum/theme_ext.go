package enum

// Toggle returns the opposite theme, dark for light and light for dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeOf maps a dark-mode flag to the matching theme.
func ThemeOf(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
