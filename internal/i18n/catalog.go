package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps dotted translation keys to localized text. Nested YAML maps
// are flattened at load time, so `buttons: { play: Play }` becomes
// "buttons.play".
type Catalog map[string]string

// ParseCatalog decodes one language's YAML table.
func ParseCatalog(data []byte) (Catalog, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	catalog := Catalog{}
	flatten("", tree, catalog)
	return catalog, nil
}

func flatten(prefix string, tree map[string]any, out Catalog) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}

// LoadCatalogDir reads every <lang>.yaml file in dir into a catalog keyed by
// language code.
func LoadCatalogDir(dir string) (map[string]Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	catalogs := map[string]Catalog{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		catalog, err := ParseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", name, err)
		}
		catalogs[strings.TrimSuffix(name, ".yaml")] = catalog
	}
	return catalogs, nil
}
