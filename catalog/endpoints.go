package catalog

import "github.com/jjohnsen/azure-devops-migration-tools/options"

// TfsTeamProjectEndpointName is the registered name of TfsTeamProjectEndpoint.
const TfsTeamProjectEndpointName = "TfsTeamProjectEndpoint"

// TfsTeamProjectEndpoint connects to a team project on a work-item server.
type TfsTeamProjectEndpoint struct {
	Collection                      string        `json:"Collection"`
	Project                         string        `json:"Project"`
	ReflectedWorkItemIDFieldName    string        `json:"ReflectedWorkItemIDFieldName"`
	AllowCrossProjectLinking        bool          `json:"AllowCrossProjectLinking"`
	AuthenticationMode              string        `json:"AuthenticationMode"`
	PersonalAccessToken             string        `json:"PersonalAccessToken"`
	PersonalAccessTokenVariableName string        `json:"PersonalAccessTokenVariableName"`
	LanguageMaps                    *LanguageMaps `json:"LanguageMaps"`
}

// LanguageMaps names the localized root nodes of the area and iteration trees.
type LanguageMaps struct {
	AreaPath      string `json:"AreaPath"`
	IterationPath string `json:"IterationPath"`
}

// Descriptor implements options.Options. The section is keyed by endpoint name.
func (TfsTeamProjectEndpoint) Descriptor() options.Descriptor {
	return options.Descriptor{
		SectionPath:        EndpointsSection,
		DiscriminatorValue: TfsTeamProjectEndpointName,
	}
}
