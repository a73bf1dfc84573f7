// Package images loads and validates the fixed, ordered list of image
// identifiers (URLs) that are rated. Order defines each image's original index.
package images

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/imagerater/pkg/errors"
)

//go:embed default.txt
var defaultList []byte

// Default returns the embedded image list.
func Default() []string {
	ids, err := ParseText(defaultList)
	if err != nil {
		panic(fmt.Sprintf("embedded image list is invalid: %v", err))
	}
	return ids
}

// document is the object form accepted by the JSON and YAML loaders.
type document struct {
	Images []string `json:"images" yaml:"images"`
}

// Load reads an image list from path. The format follows the extension:
// .yaml/.yml and .json accept either a bare list or an object with an
// "images" key; anything else is read as one identifier per line, with
// blank lines and '#' comments skipped.
func Load(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.WrapIO("read", filename, err)
	}

	var ids []string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		ids, err = ParseYAML(data)
	case ".json":
		ids, err = ParseJSON(data)
	default:
		ids, err = ParseText(data)
	}
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.File == "" {
			pe.File = filename
		}
		return nil, err
	}
	return ids, nil
}

// ParseText parses one identifier per line.
func ParseText(data []byte) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapParse("text", "", err)
	}
	return ids, Validate(ids)
}

// ParseJSON parses a JSON array of strings or {"images": [...]}.
func ParseJSON(data []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		var doc document
		if objErr := json.Unmarshal(data, &doc); objErr != nil {
			return nil, errors.WrapParse("json", "", err)
		}
		ids = doc.Images
	}
	return ids, Validate(ids)
}

// ParseYAML parses a YAML sequence of strings or a mapping with an images key.
func ParseYAML(data []byte) ([]string, error) {
	var ids []string
	if err := yaml.Unmarshal(data, &ids); err != nil {
		var doc document
		if objErr := yaml.Unmarshal(data, &doc); objErr != nil {
			return nil, errors.WrapParse("yaml", "", err)
		}
		ids = doc.Images
	}
	return ids, Validate(ids)
}

// Validate rejects empty lists, empty identifiers, and duplicates.
func Validate(ids []string) error {
	if len(ids) == 0 {
		return errors.NewValidationError("images", nil, "image list is empty")
	}
	seen := make(map[string]int, len(ids))
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return errors.NewValidationError("images", i, fmt.Sprintf("identifier at index %d is empty", i))
		}
		if first, dup := seen[id]; dup {
			return errors.NewValidationError("images", id,
				fmt.Sprintf("identifier at index %d duplicates index %d: %s", i, first, id))
		}
		seen[id] = i
	}
	return nil
}

// DisplayName returns the last path segment of an identifier, which is how
// images are labelled in lists. Identifiers without a usable segment are
// returned unchanged.
func DisplayName(id string) string {
	trimmed := strings.TrimRight(id, "/")
	if i := strings.Index(trimmed, "?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := path.Base(trimmed)
	if name == "." || name == "/" || name == "" {
		return id
	}
	return name
}
