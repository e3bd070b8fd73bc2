// Package config loads the tool's own settings and the migration
// configuration documents it edits.
//
// Typed settings go through Provider, which chains four extension points:
//   - DataFetcher: retrieves raw data (see config/fetcher/file)
//   - Parser: decodes into a struct, with colon path navigation
//   - Defaulter: applies default values before validation
//   - Validator: validates the result
//
// Whole documents go through LoadDocument, which returns an ordered
// document.Object. Unparsable data yields an empty document together with an
// error wrapping ErrParse, so callers decide whether to continue.
//
// Layer merges documents into a read view. Later layers win, objects merge
// recursively and arrays are replaced:
//
//	settings, _ := config.LoadDocument(settingsFetcher, parser, logger)
//	file, err := config.LoadDocument(fileFetcher, parser, logger)
//	view := config.Layer(settings, file)
//
// # Path Navigation
//
// Paths use colon (:) as the separator:
//
//	"Logging:Level"                    -> root["Logging"]["Level"]
//	"MigrationTools:Endpoints:Source"  -> three levels deep
//	""                                 -> entire document
package config
