// Package file provides a file-based DataFetcher implementation for the config package.
//
// The file is read at construction time and cached, so every call to Fetch
// returns the same bytes for the whole command run. Two constructors exist:
//
//   - NewFetcher requires the file; a missing file fails with ErrNotFound.
//   - NewOptionalFetcher tolerates a missing file and reports it via Exists.
//
// WriteAtomic persists a document by writing a temporary sibling file and
// renaming it over the target.
//
// Usage:
//
//	fetcher, err := file.NewOptionalFetcher("configuration.json")()
//	if err != nil {
//	    // permission denied, path is a directory, ...
//	}
//	data, err := fetcher.Fetch()
//	err = file.WriteAtomic("configuration.json", updated, 0o600)
//
// Error Handling:
//   - Errors include the filepath for easier debugging
//   - Use errors.Is(err, file.ErrPathIsDirectory) to check for directory errors
//   - Use errors.Is(err, file.ErrNotFound) to check for a missing required file
package file
