package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IvanShishkin/dupehound/pkg/models"
)

// ErrInvalidComponent is returned for rename tokens that name no component
var ErrInvalidComponent = errors.New("invalid rename component")

// DefaultPadWidth is used for "sequence" tokens without a width
const DefaultPadWidth = 3

// MaxPadWidth bounds sequence zero padding
const MaxPadWidth = 12

// Schema converts the configured rename tokens into a schema
func (c *Config) Schema() (models.RenameSchema, error) {
	components := c.Rename.Components
	if len(components) == 0 {
		components = DefaultComponents
	}
	parsed, err := ParseComponents(components)
	if err != nil {
		return models.RenameSchema{}, err
	}
	return models.RenameSchema{Components: parsed, Separator: c.Rename.Separator}, nil
}

// ParseComponents parses tokens such as "folder_name", "sequence:3" or
// "literal:backup". Tokens may also be given comma-separated in one string.
func ParseComponents(tokens []string) ([]models.RenameComponent, error) {
	var components []models.RenameComponent
	for _, raw := range tokens {
		for _, token := range strings.Split(raw, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			comp, err := ParseComponent(token)
			if err != nil {
				return nil, err
			}
			components = append(components, comp)
		}
	}
	return components, nil
}

// ParseComponent parses a single rename token
func ParseComponent(token string) (models.RenameComponent, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(token), ":")
	kind := models.ComponentKind(strings.ToLower(strings.TrimSpace(name)))

	switch kind {
	case models.ComponentLiteral:
		return models.RenameComponent{Kind: kind, Value: arg}, nil
	case models.ComponentSequence:
		pad := DefaultPadWidth
		if hasArg {
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 || n > MaxPadWidth {
				return models.RenameComponent{}, fmt.Errorf("%w: sequence pad width must be 0-%d (got: %s)", ErrInvalidComponent, MaxPadWidth, arg)
			}
			pad = n
		}
		return models.RenameComponent{Kind: kind, PadWidth: pad}, nil
	case models.ComponentFolderName, models.ComponentDateCreated, models.ComponentDateModified,
		models.ComponentTimeCreated, models.ComponentTimeModified, models.ComponentOriginalStem:
		if hasArg {
			return models.RenameComponent{}, fmt.Errorf("%w: %s takes no argument", ErrInvalidComponent, kind)
		}
		return models.RenameComponent{Kind: kind}, nil
	default:
		return models.RenameComponent{}, fmt.Errorf("%w: %q", ErrInvalidComponent, token)
	}
}

// FormatComponent renders a component back into its token
func FormatComponent(c models.RenameComponent) string {
	switch c.Kind {
	case models.ComponentLiteral:
		return "literal:" + c.Value
	case models.ComponentSequence:
		return fmt.Sprintf("sequence:%d", c.PadWidth)
	default:
		return string(c.Kind)
	}
}
