package utilities

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type JsonConfigObj[T any] interface {
	ConvertToDomain() T
}

func ReadConfig[T JsonConfigObj[U], U any](file string) (U, error) {
	return ReadConfigWithProfile[T, U](file, "")
}

// ReadConfigWithProfile reads file and, when profile is set, overlays
// config.<profile>.json from the same directory. Keys absent from the
// overlay keep their base values.
func ReadConfigWithProfile[T JsonConfigObj[U], U any](file, profile string) (U, error) {
	var empty U

	var config T
	if err := unmarshalFile(file, &config); err != nil {
		return empty, err
	}

	if profile = strings.TrimSpace(profile); profile != "" {
		overlay := ProfileFile(file, profile)
		err := unmarshalFile(overlay, &config)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return empty, err
		}
	}

	return config.ConvertToDomain(), nil
}

// ProfileFile returns the overlay path for profile, e.g. config.json -> config.pg.json.
func ProfileFile(file, profile string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + "." + profile + ext
}

func unmarshalFile(file string, target any) error {
	fileContent, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(fileContent, target); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	return nil
}

func ConvertJsonArrayToDomain[T JsonConfigObj[U], U any](jsonArray []T) []U {
	var domainArray []U
	for _, item := range jsonArray {
		domainArray = append(domainArray, item.ConvertToDomain())
	}
	return domainArray
}
