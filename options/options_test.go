package options_test

import (
	"github.com/jjohnsen/azure-devops-migration-tools/options"
)

type endpointOptions struct {
	Collection string   `json:"Collection"`
	Project    string   `json:"Project,omitempty"`
	Tags       []string `json:"Tags,omitempty"`
}

func (endpointOptions) Descriptor() options.Descriptor {
	return options.Descriptor{
		SectionPath:        "MigrationTools:Endpoints:Source",
		DiscriminatorValue: "TestEndpoint",
	}
}

type processorOptions struct {
	Enabled bool   `json:"Enabled"`
	Query   string `json:"Query,omitempty"`
}

func (processorOptions) Descriptor() options.Descriptor {
	return options.Descriptor{
		CollectionPath:     "MigrationTools:Processors",
		DiscriminatorValue: "TestProcessor",
	}
}

type exportProcessorOptions struct {
	Target string `json:"Target"`
}

func (exportProcessorOptions) Descriptor() options.Descriptor {
	return options.Descriptor{
		CollectionPath:     "MigrationTools:Processors",
		DiscriminatorField: "Kind",
		DiscriminatorValue: "Export",
	}
}

type unnamedOptions struct{}

func (unnamedOptions) Descriptor() options.Descriptor {
	return options.Descriptor{SectionPath: "Unnamed"}
}

type pointerOptions struct{}

func (*pointerOptions) Descriptor() options.Descriptor {
	return options.Descriptor{SectionPath: "Pointer", DiscriminatorValue: "Pointer"}
}
