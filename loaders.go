package msgbundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// ParseProperties reads UTF-8 "key = value" property text with
// magiconair/properties. Values decode \t, \n, \r, \f and \uXXXX escapes and
// join continuation lines; keys end at the first unescaped space, '=' or ':'.
// "${...}" is kept verbatim.
func ParseProperties(data []byte) (*MapSource, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return NewMapSource(props.Map()), nil
}

// LoadPropertiesFile reads a property file from disk.
func LoadPropertiesFile(name string) (*MapSource, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("msgbundle: read %s: %w", name, err)
	}
	src, err := ParseProperties(data)
	if err != nil {
		return nil, fmt.Errorf("msgbundle: decode %s: %w", name, err)
	}
	return src, nil
}

// LoadPropertiesFS reads a property file from fsys.
func LoadPropertiesFS(fsys fs.FS, name string) (*MapSource, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("msgbundle: read %s: %w", name, err)
	}
	src, err := ParseProperties(data)
	if err != nil {
		return nil, fmt.Errorf("msgbundle: decode %s: %w", name, err)
	}
	return src, nil
}

// ParseYAML reads a YAML mapping. Nested mappings are flattened with dots,
// so {errors: {notFound: x}} binds "errors.notFound".
func ParseYAML(data []byte) (*MapSource, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	return NewMapSource(flattenMessages(raw, "")), nil
}

// ParseJSON reads a JSON object, flattened like ParseYAML.
func ParseJSON(data []byte) (*MapSource, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json parse error: %w", err)
	}
	return NewMapSource(flattenMessages(raw, "")), nil
}

// PoSource serves the msgid to msgstr pairs of a gettext catalogue.
// Untranslated entries and the header are reported as missing.
type PoSource struct {
	messages map[string]string
}

var _ MessageSource = &PoSource{}

// ParsePo reads a gettext .po catalogue. Translations are copied out of the
// catalogue once, so lookups never pass a msgstr through gotext's formatting.
func ParsePo(data []byte) *PoSource {
	po := gotext.NewPo()
	po.Parse(data)

	translations := po.GetDomain().GetTranslations()
	messages := make(map[string]string, len(translations))
	for id, tr := range translations {
		if id == "" || !tr.IsTranslated() {
			continue
		}
		messages[id] = tr.Get()
	}
	return &PoSource{messages: messages}
}

func (s *PoSource) Message(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	msg, ok := s.messages[key]
	return msg, ok
}

// Keys lists the translated msgids in sorted order.
func (s *PoSource) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.messages))
	for key := range s.messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LoadSourceFS reads name from fsys and decodes it according to its
// extension: .properties, .yaml, .yml, .json or .po.
func LoadSourceFS(fsys fs.FS, name string) (MessageSource, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("msgbundle: read %s: %w", name, err)
	}
	return decodeSource(name, data)
}

// LoadSourceFile is LoadSourceFS for the operating system file system.
func LoadSourceFile(name string) (MessageSource, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("msgbundle: read %s: %w", name, err)
	}
	return decodeSource(name, data)
}

func decodeSource(name string, data []byte) (MessageSource, error) {
	var (
		src MessageSource
		err error
	)

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".properties":
		src, err = ParseProperties(data)
	case ".yaml", ".yml":
		src, err = ParseYAML(data)
	case ".json":
		src, err = ParseJSON(data)
	case ".po":
		src = ParsePo(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	if err != nil {
		return nil, fmt.Errorf("msgbundle: decode %s: %w", name, err)
	}
	return src, nil
}

func isSourceExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".properties", ".yaml", ".yml", ".json", ".po":
		return true
	}
	return false
}

func flattenMessages(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := data[key].(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			for nestedKey, nestedValue := range flattenMessages(v, fullKey) {
				result[nestedKey] = nestedValue
			}
		case map[any]any:
			converted := make(map[string]any, len(v))
			for k, val := range v {
				converted[fmt.Sprint(k)] = val
			}
			for nestedKey, nestedValue := range flattenMessages(converted, fullKey) {
				result[nestedKey] = nestedValue
			}
		case nil:
			// null leaves the key unbound
		default:
			result[fullKey] = fmt.Sprint(v)
		}
	}

	return result
}
