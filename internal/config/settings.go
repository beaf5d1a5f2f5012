package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dshills/jmbglens/internal/config/loader"
)

// Setting paths.
const (
	PathBorderWidth = "decoration.borderWidth"
	PathBorderStyle = "decoration.borderStyle"
	PathBorderColor = "decoration.borderColor"
	PathSettleDelay = "paste.settleDelay"
	PathLogLevel    = "log.level"
)

// Paths lists every known setting path.
var Paths = []string{PathBorderWidth, PathBorderStyle, PathBorderColor, PathSettleDelay, PathLogLevel}

// Defaults.
const (
	DefaultBorderWidth = "2px"
	DefaultBorderStyle = "solid"
	DefaultBorderColor = "#ff8800"
	DefaultSettleDelay = 100 * time.Millisecond
	DefaultLogLevel    = "info"
)

var (
	widthPattern = regexp.MustCompile(`^\d+(\.\d+)?(px|em|rem|pt)?$`)
	borderStyles = []string{"none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset"}
	logLevels    = []string{"debug", "info", "warn", "error"}
)

// Settings are the effective configuration values.
type Settings struct {
	Decoration DecorationSettings
	Paste      PasteSettings
	Log        LogSettings
}

// DecorationSettings style the selection marker.
type DecorationSettings struct {
	BorderWidth string
	BorderStyle string
	BorderColor string
}

// PasteSettings tune the send-to-editor action.
type PasteSettings struct {
	SettleDelay time.Duration
}

// LogSettings configure logging.
type LogSettings struct {
	Level string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Decoration: DecorationSettings{
			BorderWidth: DefaultBorderWidth,
			BorderStyle: DefaultBorderStyle,
			BorderColor: DefaultBorderColor,
		},
		Paste: PasteSettings{SettleDelay: DefaultSettleDelay},
		Log:   LogSettings{Level: DefaultLogLevel},
	}
}

// Get returns the value stored at path.
func (s Settings) Get(path string) (any, error) {
	switch path {
	case PathBorderWidth:
		return s.Decoration.BorderWidth, nil
	case PathBorderStyle:
		return s.Decoration.BorderStyle, nil
	case PathBorderColor:
		return s.Decoration.BorderColor, nil
	case PathSettleDelay:
		return s.Paste.SettleDelay, nil
	case PathLogLevel:
		return s.Log.Level, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
}

// Diff returns the paths whose values differ between s and other.
func (s Settings) Diff(other Settings) []string {
	var changed []string
	for _, path := range Paths {
		a, _ := s.Get(path)
		b, _ := other.Get(path)
		if a != b {
			changed = append(changed, path)
		}
	}
	return changed
}

// Validate checks every value.
func (s Settings) Validate() error {
	if !widthPattern.MatchString(s.Decoration.BorderWidth) {
		return &ValidationError{Path: PathBorderWidth, Message: "must be a CSS length such as 2px", Value: s.Decoration.BorderWidth}
	}
	if !slices.Contains(borderStyles, s.Decoration.BorderStyle) {
		return &ValidationError{Path: PathBorderStyle, Message: "must be one of " + strings.Join(borderStyles, ", "), Value: s.Decoration.BorderStyle}
	}
	if strings.TrimSpace(s.Decoration.BorderColor) == "" {
		return &ValidationError{Path: PathBorderColor, Message: "must not be empty", Value: s.Decoration.BorderColor}
	}
	if s.Paste.SettleDelay <= 0 {
		return &ValidationError{Path: PathSettleDelay, Message: "must be positive", Value: s.Paste.SettleDelay}
	}
	if !slices.Contains(logLevels, s.Log.Level) {
		return &ValidationError{Path: PathLogLevel, Message: "must be one of " + strings.Join(logLevels, ", "), Value: s.Log.Level}
	}
	return nil
}

// decode applies the known paths found in data on top of Default.
// Unknown keys are ignored.
func decode(data map[string]any) (Settings, error) {
	s := Default()
	for _, path := range Paths {
		raw, ok := loader.GetByPath(data, path)
		if !ok {
			continue
		}
		if err := s.set(path, raw); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

// set converts raw and stores it at path.
func (s *Settings) set(path string, raw any) error {
	switch path {
	case PathBorderWidth:
		v, err := widthValue(path, raw)
		if err != nil {
			return err
		}
		s.Decoration.BorderWidth = v
	case PathBorderStyle:
		v, err := stringValue(path, raw)
		if err != nil {
			return err
		}
		s.Decoration.BorderStyle = strings.ToLower(v)
	case PathBorderColor:
		v, err := stringValue(path, raw)
		if err != nil {
			return err
		}
		s.Decoration.BorderColor = v
	case PathSettleDelay:
		v, err := durationValue(path, raw)
		if err != nil {
			return err
		}
		s.Paste.SettleDelay = v
	case PathLogLevel:
		v, err := stringValue(path, raw)
		if err != nil {
			return err
		}
		s.Log.Level = strings.ToLower(v)
	default:
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return nil
}

func stringValue(path string, raw any) (string, error) {
	if v, ok := raw.(string); ok {
		return v, nil
	}
	return "", &TypeError{Path: path, Expected: "string", Actual: fmt.Sprintf("%T", raw)}
}

// widthValue accepts "2px" or a bare number of pixels.
func widthValue(path string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int:
		return fmt.Sprintf("%dpx", v), nil
	case int64:
		return fmt.Sprintf("%dpx", v), nil
	case float64:
		return fmt.Sprintf("%gpx", v), nil
	default:
		return "", &TypeError{Path: path, Expected: "string or number", Actual: fmt.Sprintf("%T", raw)}
	}
}

// durationValue accepts a duration, a duration string or a number of milliseconds.
func durationValue(path string, raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%q", v)}
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%T", raw)}
	}
}
