// Package identity maps user identities between the source and target
// systems using the user mapping tool settings.
//
// The mapping file is read once, on first use. A missing or malformed file
// yields an empty mapping and an error log entry; identity mapping never
// fails a migration.
package identity

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/jjohnsen/azure-devops-migration-tools/catalog"
)

// ErrDuplicateIdentity is returned when a mapping file maps one source name twice.
var ErrDuplicateIdentity = errors.New("duplicate source identity")

// ItemData describes a user as seen by one system.
type ItemData struct {
	DisplayName string `json:"DisplayName" yaml:"DisplayName"`
	Domain      string `json:"Domain,omitempty" yaml:"Domain,omitempty"`
	AccountName string `json:"AccountName,omitempty" yaml:"AccountName,omitempty"`
	MailAddress string `json:"MailAddress,omitempty" yaml:"MailAddress,omitempty"`
}

// MapData pairs a source user with its target user. Target is nil when no
// match was found.
type MapData struct {
	Source ItemData  `json:"Source" yaml:"Source"`
	Target *ItemData `json:"Target" yaml:"Target"`
}

// Field is a single work-item field value.
type Field struct {
	ReferenceName string
	Value         any
}

// Revision is one historical state of a work item.
type Revision struct {
	Fields []Field
}

// WorkItem is the subset of a work item needed to collect identities.
type WorkItem struct {
	ID        int
	Revisions []Revision
}

// Mapper applies the user mapping file to identity fields.
type Mapper struct {
	options catalog.TfsUserMappingToolOptions
	logger  *slog.Logger

	once     sync.Once
	mappings map[string]string
}

// NewMapper creates a Mapper for the given tool settings.
func NewMapper(opts catalog.TfsUserMappingToolOptions, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}

	return &Mapper{
		options: opts,
		logger:  logger.With(slog.String("tool", catalog.TfsUserMappingToolOptionsName)),
	}
}

// MapIdentity returns the target display name for field when the tool is
// enabled, the field is listed in IdentityFieldsToCheck and the mapping file
// has an entry for its value.
func (m *Mapper) MapIdentity(field Field) (string, bool) {
	if !m.options.Enabled || !contains(m.options.IdentityFieldsToCheck, field.ReferenceName) {
		return "", false
	}

	value, ok := field.Value.(string)
	if !ok || value == "" {
		return "", false
	}

	mapped, found := m.Mappings()[value]
	if !found {
		return "", false
	}

	m.logger.Debug("identity mapped",
		slog.String("field", field.ReferenceName),
		slog.String("original", value),
		slog.String("mapped", mapped))

	return mapped, true
}

// Mappings returns the source to target display name table from the
// mapping file. The file is read on the first call only.
func (m *Mapper) Mappings() map[string]string {
	m.once.Do(func() {
		mappings, err := readMappingFile(m.options.UserMappingFile)
		if err != nil {
			m.logger.Error("user mapping file unusable, no mappings are applied",
				slog.String("file", m.options.UserMappingFile),
				slog.String("error", err.Error()))

			mappings = map[string]string{}
		}

		m.mappings = mappings
	})

	return m.mappings
}

func readMappingFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path comes from the tool settings
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	var entries []MapData

	err = yaml.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	mappings := make(map[string]string, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if _, exists := seen[entry.Source.DisplayName]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIdentity, entry.Source.DisplayName)
		}

		seen[entry.Source.DisplayName] = struct{}{}

		if entry.Target == nil || entry.Target.DisplayName == "" {
			continue
		}

		mappings[entry.Source.DisplayName] = entry.Target.DisplayName
	}

	return mappings, nil
}

// UsersFromWorkItems collects the distinct, non-empty identity values found
// in the listed fields across every revision. Values are compared without
// regard to case and returned in first-seen order. A field is checked when
// one of fields contains its reference name, ignoring case.
func UsersFromWorkItems(items []WorkItem, fields []string) []string {
	seen := make(map[string]struct{})
	users := make([]string, 0)

	for _, item := range items {
		for _, revision := range item.Revisions {
			for _, field := range revision.Fields {
				if !matchesAny(fields, field.ReferenceName) {
					continue
				}

				value, ok := field.Value.(string)
				if !ok || value == "" {
					continue
				}

				key := strings.ToLower(value)
				if _, exists := seen[key]; exists {
					continue
				}

				seen[key] = struct{}{}
				users = append(users, value)
			}
		}
	}

	return users
}

// MatchIdentities pairs every source user with a target user. With byEmail,
// a source user with a mail address is matched to the single target user
// sharing it; ambiguous or missing email matches fall back to an exact
// display name match, which must also be unique.
func MatchIdentities(source, target []ItemData, byEmail bool) []MapData {
	matched := make([]MapData, 0, len(source))

	for _, sourceUser := range source {
		var targetUser *ItemData

		if byEmail && sourceUser.MailAddress != "" {
			targetUser = single(target, func(candidate ItemData) bool {
				return strings.EqualFold(candidate.MailAddress, sourceUser.MailAddress)
			})
		}

		if targetUser == nil {
			targetUser = single(target, func(candidate ItemData) bool {
				return candidate.DisplayName == sourceUser.DisplayName
			})
		}

		matched = append(matched, MapData{Source: sourceUser, Target: targetUser})
	}

	return matched
}

// UsersInSourceMappedToTarget matches source users to target users using the
// tool settings. A disabled tool returns nothing.
func (m *Mapper) UsersInSourceMappedToTarget(source, target []ItemData) []MapData {
	if !m.options.Enabled {
		m.logger.Warn("user mapping is disabled, source users may be left unmapped in the target")

		return nil
	}

	if m.options.MatchUsersByEmail {
		m.logger.Info("matching users by email first, then by display name")
	}

	return MatchIdentities(source, target, m.options.MatchUsersByEmail)
}

// UsersForWorkItems restricts UsersInSourceMappedToTarget to users that
// appear in the identity fields of items.
func (m *Mapper) UsersForWorkItems(items []WorkItem, source, target []ItemData) []MapData {
	if !m.options.Enabled {
		m.logger.Warn("user mapping is disabled, source users may be left unmapped in the target")

		return nil
	}

	users := make(map[string]struct{})
	for _, user := range UsersFromWorkItems(items, m.options.IdentityFieldsToCheck) {
		users[strings.ToLower(user)] = struct{}{}
	}

	m.logger.Debug("identities found in work items", slog.Int("count", len(users)))

	mapped := m.UsersInSourceMappedToTarget(source, target)
	filtered := make([]MapData, 0, len(mapped))

	for _, entry := range mapped {
		if _, found := users[strings.ToLower(entry.Source.DisplayName)]; found {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}

func single(candidates []ItemData, match func(ItemData) bool) *ItemData {
	var found *ItemData

	for i := range candidates {
		if !match(candidates[i]) {
			continue
		}

		if found != nil {
			return nil
		}

		found = &candidates[i]
	}

	return found
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}

	return false
}

func matchesAny(fields []string, referenceName string) bool {
	if referenceName == "" {
		return false
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), strings.ToLower(referenceName)) {
			return true
		}
	}

	return false
}
