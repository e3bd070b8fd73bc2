package catalog

import "github.com/jjohnsen/azure-devops-migration-tools/options"

// Registered processor names.
const (
	TfsWorkItemMigrationProcessorName   = "TfsWorkItemMigrationProcessor"
	WorkItemPostProcessingProcessorName = "WorkItemPostProcessingProcessor"
)

// ProcessorOptions holds the fields every processor shares.
type ProcessorOptions struct {
	Enabled    bool   `json:"Enabled"`
	SourceName string `json:"SourceName"`
	TargetName string `json:"TargetName"`
}

func processorDescriptor(name string) options.Descriptor {
	return options.Descriptor{
		CollectionPath:     ProcessorsCollection,
		DiscriminatorValue: name,
	}
}

// TfsWorkItemMigrationProcessor migrates work items selected by a query.
type TfsWorkItemMigrationProcessor struct {
	ProcessorOptions

	WIQLQuery                               string `json:"WIQLQuery"`
	UpdateCreatedDate                       bool   `json:"UpdateCreatedDate"`
	UpdateCreatedBy                         bool   `json:"UpdateCreatedBy"`
	FixHTMLAttachmentLinks                  bool   `json:"FixHtmlAttachmentLinks"`
	FilterWorkItemsThatAlreadyExistInTarget bool   `json:"FilterWorkItemsThatAlreadyExistInTarget"`
	GenerateMigrationComment                bool   `json:"GenerateMigrationComment"`
	SkipRevisionWithInvalidIterationPath    bool   `json:"SkipRevisionWithInvalidIterationPath"`
	SkipRevisionWithInvalidAreaPath         bool   `json:"SkipRevisionWithInvalidAreaPath"`
	WorkItemCreateRetryLimit                int    `json:"WorkItemCreateRetryLimit"`
	MaxGracefulFailures                     int    `json:"MaxGracefulFailures"`
	WorkItemIDs                             []int  `json:"WorkItemIDs"`
}

// Descriptor implements options.Options.
func (TfsWorkItemMigrationProcessor) Descriptor() options.Descriptor {
	return processorDescriptor(TfsWorkItemMigrationProcessorName)
}

// WorkItemPostProcessingProcessor re-saves already migrated work items so
// that target-side rules run again.
type WorkItemPostProcessingProcessor struct {
	ProcessorOptions

	WIQLQuery                               string `json:"WIQLQuery"`
	WorkItemIDs                             []int  `json:"WorkItemIDs"`
	FilterWorkItemsThatAlreadyExistInTarget bool   `json:"FilterWorkItemsThatAlreadyExistInTarget"`
	PauseAfterEachWorkItem                  bool   `json:"PauseAfterEachWorkItem"`
	WorkItemCreateRetryLimit                int    `json:"WorkItemCreateRetryLimit"`
}

// Descriptor implements options.Options.
func (WorkItemPostProcessingProcessor) Descriptor() options.Descriptor {
	return processorDescriptor(WorkItemPostProcessingProcessorName)
}
