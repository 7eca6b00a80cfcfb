package models

// Theme holds the embed colours, as 0xRRGGBB integers
type Theme struct {
	Primary int
	Success int
	Error   int
	Warning int
}

func DefaultTheme() Theme {
	return Theme{
		Primary: 0x5865F2,
		Success: 0x57F287,
		Error:   0xED4245,
		Warning: 0xFEE75C,
	}
}

// ColorFor maps a view tone to its theme colour
func (t Theme) ColorFor(tone ViewTone) int {
	switch tone {
	case ToneOnline:
		return t.Success
	case ToneOffline:
		return t.Error
	case ToneError:
		return t.Warning
	default:
		return t.Primary
	}
}
