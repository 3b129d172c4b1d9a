package tiles

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/annel0/layerworld/internal/vec"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFlag возвращается для неизвестного имени флага в файле каталога
var ErrUnknownFlag = errors.New("неизвестный флаг тайла")

var flagNames = map[string]Flags{
	"allows_layer_transition": AllowsLayerTransition,
	"blocks_movement":         BlocksMovement,
}

// catalogFile — формат YAML-файла каталога
type catalogFile struct {
	Tiles []tileEntry `yaml:"tiles"`
}

type tileEntry struct {
	Name   string   `yaml:"name"`
	Offset [2]int   `yaml:"offset"`
	Size   [2]int   `yaml:"size"`
	Flags  []string `yaml:"flags"`
}

// LoadCatalog читает каталог тайлов из YAML файла
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog разбирает YAML описание каталога
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка разбора каталога: %w", err)
	}

	entries := make([]Descriptor, 0, len(file.Tiles))
	for i, t := range file.Tiles {
		var flags Flags
		for _, name := range t.Flags {
			f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return nil, fmt.Errorf("тайл #%d (%s): %w %q", i+1, t.Name, ErrUnknownFlag, name)
			}
			flags |= f
		}

		entries = append(entries, Descriptor{
			Name: t.Name,
			Region: TextureRegion{
				Offset: vec.Vec2{X: t.Offset[0], Y: t.Offset[1]},
				Size:   vec.Vec2{X: t.Size[0], Y: t.Size[1]},
			},
			Flags: flags,
		})
	}

	return NewCatalog(entries), nil
}
