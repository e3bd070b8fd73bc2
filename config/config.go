package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

// ErrParse is returned when persisted configuration bytes cannot be parsed.
var ErrParse = errors.New("configuration parse error")

// Parser defines an interface for parsing configuration data into a target structure.
//
// The path parameter specifies a navigation path within the configuration data
// using colon (:) as the separator for nested keys. For example:
//   - "api:permissions" navigates to config["api"]["permissions"]
//   - "database:connection:timeout" navigates three levels deep
//   - "" (empty path) means parse the entire document
//
// Parser implementations are responsible for path navigation internally.
// See config/parser/yaml for an example using goccy/go-yaml PathString.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// DocumentParser decodes raw data into an ordered, editable document.
// See config/parser/yaml for the goccy/go-yaml implementation.
type DocumentParser interface {
	ParseDocument(data []byte) (*document.Object, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that reads, parses, sets defaults, and validates configuration data.
func Provider[T any](target *T, path string) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, dataSourcer DataFetcher) (*T, error) {
		data, err := dataSourcer.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		err = parser.Parse(data, target, path)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Debug("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}

// LoadDocument reads and parses a whole configuration document.
//
// A fetcher that yields no data produces an empty document. Unparsable data
// also produces an empty document, returned together with an error wrapping
// ErrParse. The parse failure is logged; whether to continue with the empty
// document is up to the caller. Fetch failures are returned as is.
func LoadDocument(fetcher DataFetcher, parser DocumentParser, logger *slog.Logger) (*document.Object, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("reading data error: %w", err)
	}

	root, err := parser.ParseDocument(data)
	if err != nil {
		logger.Error("configuration document could not be parsed",
			slog.String("error", err.Error()))

		return document.NewObject(), fmt.Errorf("%w: %w", ErrParse, err)
	}

	return root, nil
}
